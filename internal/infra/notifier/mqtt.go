package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/KasumiMercury/flock-watch/internal/domain"
	"github.com/KasumiMercury/flock-watch/internal/idgen"
)

const DefaultMQTTTopic = "flock/alerts"

type mqttPayload struct {
	ID         string `json:"id"`
	DecisionID string `json:"decision_id,omitempty"`
	To         string `json:"to,omitempty"`
	From       string `json:"from,omitempty"`
	Message    string `json:"message"`
	SentAt     string `json:"sent_at"`
}

// MQTTChannel publishes alerts with QoS 1 so a connected subscriber gets each
// message at least once.
type MQTTChannel struct {
	client  paho.Client
	topic   string
	timeout time.Duration
}

func NewMQTTChannel(broker, clientID, topic string, timeout time.Duration) (*MQTTChannel, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return NewMQTTChannelWithClient(client, topic, timeout), nil
}

func NewMQTTChannelWithClient(client paho.Client, topic string, timeout time.Duration) *MQTTChannel {
	if topic == "" {
		topic = DefaultMQTTTopic
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MQTTChannel{
		client:  client,
		topic:   topic,
		timeout: timeout,
	}
}

func (c *MQTTChannel) Send(ctx context.Context, to, from, message string) (string, error) {
	payload := mqttPayload{
		ID:      idgen.New(),
		To:      to,
		From:    from,
		Message: message,
		SentAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if decisionID, ok := domain.DecisionIDFromContext(ctx); ok {
		payload.DecisionID = decisionID
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("format payload: %w", err)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	token := c.client.Publish(c.topic, 1, false, data)
	if !token.WaitTimeout(timeout) {
		return "", fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return "", fmt.Errorf("publish: %w", err)
	}

	return payload.ID, nil
}

func (c *MQTTChannel) Close() error {
	c.client.Disconnect(1000)
	return nil
}
