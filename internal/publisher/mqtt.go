// Package publisher sends monthly cost overviews to an MQTT broker.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"utility_dashboard/internal/config"
	"utility_dashboard/internal/logging"
	"utility_dashboard/internal/summary"
)

const publishTimeout = 10 * time.Second

// Client is the part of mqtt.Client the publisher uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Publisher publishes retained monthly cost messages.
type Publisher struct {
	client      Client
	topicPrefix string
	logger      *logging.Logger
}

// New connects to the broker described by cfg.
func New(cfg config.MQTTConfig, logger *logging.Logger) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(cfg.Broker))
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(publishTimeout)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	return NewWithClient(client, cfg.TopicPrefix, logger), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client Client, topicPrefix string, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Publisher{
		client:      client,
		topicPrefix: strings.TrimSuffix(topicPrefix, "/"),
		logger:      logger.WithComponent("publisher"),
	}
}

func brokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}

// Topic returns "<prefix>/<yyyy-mm>/cost".
func (p *Publisher) Topic(month time.Time) string {
	return fmt.Sprintf("%s/%s/cost", p.topicPrefix, month.Format("2006-01"))
}

// MonthMessage is the JSON body of one monthly message.
type MonthMessage struct {
	Month       string          `json:"month"`
	Label       string          `json:"label"`
	Total       float64         `json:"total"`
	Electricity float64         `json:"electricity"`
	Water       float64         `json:"water"`
	TotalText   string          `json:"total_text"`
	Change      *summary.Change `json:"change,omitempty"`
	ChangeText  string          `json:"change_text,omitempty"`
}

// Message builds the message for one month. Change is omitted for the oldest
// month.
func Message(m summary.MonthOverview) MonthMessage {
	msg := MonthMessage{
		Month:       m.Month.Format("2006-01"),
		Label:       m.Label,
		Total:       m.Totals.Total,
		Electricity: m.Totals.Electricity,
		Water:       m.Totals.Water,
		TotalText:   summary.FormatKr(m.Totals.Total),
	}
	if m.HasPrior {
		change := m.Change
		msg.Change = &change
		msg.ChangeText = summary.FormatChange(m.Change.Total)
	}
	return msg
}

// PublishOverview publishes one retained message per month and returns the
// number published before the first failure.
func (p *Publisher) PublishOverview(ctx context.Context, months []summary.MonthOverview) (int, error) {
	published := 0
	for _, m := range months {
		if err := ctx.Err(); err != nil {
			return published, err
		}

		body, err := json.Marshal(Message(m))
		if err != nil {
			return published, fmt.Errorf("encoding payload: %w", err)
		}

		topic := p.Topic(m.Month)
		token := p.client.Publish(topic, 1, true, body)
		if !token.WaitTimeout(publishTimeout) {
			return published, fmt.Errorf("publishing %s: timed out", topic)
		}
		if err := token.Error(); err != nil {
			return published, fmt.Errorf("publishing %s: %w", topic, err)
		}

		p.logger.Debug("published month", "topic", topic, "total", m.Totals.Total)
		published++
	}
	return published, nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
