// Package notifier implements the outbound notification channels.
package notifier

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type Kind string

const (
	KindLog        Kind = "log"
	KindTwilio     Kind = "twilio"
	KindMQTT       Kind = "mqtt"
	KindCloudTasks Kind = "cloudtasks"
)

var ErrUnknownChannel = errors.New("unknown notification channel")

type Config struct {
	Kind Kind

	To   string
	From string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioBaseURL    string

	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string

	CloudTasksProjectID  string
	CloudTasksLocationID string
	CloudTasksQueueID    string
	CloudTasksTargetURL  string
	// CloudTasksEndpoint overrides the API endpoint, e.g. for an emulator.
	CloudTasksEndpoint string
	// CloudTasksServiceAccount signs an OIDC token for the task target when set.
	CloudTasksServiceAccount string

	Timeout time.Duration
}

func LoadConfig() *Config {
	timeout := 10 * time.Second
	if v := os.Getenv("NOTIFY_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			timeout = parsed
		}
	}

	return &Config{
		Kind: Kind(strings.ToLower(getEnvOrDefault("NOTIFY_CHANNEL", string(KindLog)))),

		To:   os.Getenv("NOTIFY_TO"),
		From: os.Getenv("NOTIFY_FROM"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioBaseURL:    getEnvOrDefault("TWILIO_BASE_URL", DefaultTwilioBaseURL),

		MQTTBroker:   os.Getenv("MQTT_BROKER"),
		MQTTTopic:    getEnvOrDefault("MQTT_TOPIC", DefaultMQTTTopic),
		MQTTClientID: getEnvOrDefault("MQTT_CLIENT_ID", "flock-watch"),

		CloudTasksProjectID:      getEnvOrDefault("CLOUDTASKS_PROJECT_ID", os.Getenv("GOOGLE_CLOUD_PROJECT")),
		CloudTasksLocationID:     os.Getenv("CLOUDTASKS_LOCATION_ID"),
		CloudTasksQueueID:        os.Getenv("CLOUDTASKS_QUEUE_ID"),
		CloudTasksTargetURL:      os.Getenv("CLOUDTASKS_TARGET_URL"),
		CloudTasksEndpoint:       os.Getenv("CLOUDTASKS_ENDPOINT"),
		CloudTasksServiceAccount: os.Getenv("CLOUDTASKS_SERVICE_ACCOUNT"),

		Timeout: timeout,
	}
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Kind {
	case KindLog:
	case KindTwilio:
		if c.TwilioAccountSID == "" || c.TwilioAuthToken == "" {
			errs = append(errs, errors.New("TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN are required for the twilio channel"))
		}
		if c.To == "" || c.From == "" {
			errs = append(errs, errors.New("NOTIFY_TO and NOTIFY_FROM are required for the twilio channel"))
		}
	case KindMQTT:
		if c.MQTTBroker == "" {
			errs = append(errs, errors.New("MQTT_BROKER is required for the mqtt channel"))
		}
	case KindCloudTasks:
		if c.CloudTasksProjectID == "" || c.CloudTasksLocationID == "" || c.CloudTasksQueueID == "" || c.CloudTasksTargetURL == "" {
			errs = append(errs, errors.New("CLOUDTASKS_PROJECT_ID, CLOUDTASKS_LOCATION_ID, CLOUDTASKS_QUEUE_ID and CLOUDTASKS_TARGET_URL are required for the cloudtasks channel"))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownChannel, c.Kind))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
