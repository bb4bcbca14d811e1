package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const DefaultTwilioBaseURL = "https://api.twilio.com"

var (
	ErrInvalidTwilioBaseURL = errors.New("invalid twilio base url")
	ErrMissingMessageSID    = errors.New("twilio response without message sid")
)

type TwilioChannel struct {
	client *twilio.RestClient
}

// NewTwilioChannel builds a REST client for accountSID. A baseURL other than
// the public API host redirects every request there.
func NewTwilioChannel(baseURL, accountSID, authToken string, timeout time.Duration) (*TwilioChannel, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := &http.Client{Timeout: timeout}
	if baseURL != "" && strings.TrimRight(baseURL, "/") != DefaultTwilioBaseURL {
		base, err := url.Parse(baseURL)
		if err != nil || base.Scheme == "" || base.Host == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTwilioBaseURL, baseURL)
		}
		httpClient.Transport = &baseURLTransport{base: base, next: http.DefaultTransport}
	}

	rc := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	c, ok := rc.Client.(*twilioclient.Client)
	if !ok {
		return nil, fmt.Errorf("unexpected twilio client type %T", rc.Client)
	}
	c.HTTPClient = httpClient

	return &TwilioChannel{client: rc}, nil
}

type createResult struct {
	message *twilioapi.ApiV2010Message
	err     error
}

// Send creates one message. Addresses prefixed "whatsapp:" go through the
// WhatsApp sender, anything else is SMS.
func (c *TwilioChannel) Send(ctx context.Context, to, from, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(message)

	// The SDK call takes no context; the HTTP client timeout bounds it.
	done := make(chan createResult, 1)
	go func() {
		msg, err := c.client.Api.CreateMessage(params)
		done <- createResult{message: msg, err: err}
	}()

	var res createResult
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(res.err, &restErr) {
			slog.WarnContext(ctx, "twilio rejected message",
				slog.Int("status_code", restErr.Status),
				slog.Int("twilio_code", restErr.Code),
				slog.String("twilio_message", restErr.Message),
			)
		}
		return "", fmt.Errorf("failed to create message: %w", res.err)
	}

	if res.message == nil || res.message.Sid == nil || *res.message.Sid == "" {
		return "", ErrMissingMessageSID
	}

	return *res.message.Sid, nil
}

// baseURLTransport points requests built for the public API host at base.
type baseURLTransport struct {
	base *url.URL
	next http.RoundTripper
}

func (t *baseURLTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = t.base.Scheme
	out.URL.Host = t.base.Host
	out.URL.Path = strings.TrimRight(t.base.Path, "/") + req.URL.Path
	out.URL.RawPath = ""
	out.Host = t.base.Host
	return t.next.RoundTrip(out)
}
