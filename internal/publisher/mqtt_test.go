package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utility_dashboard/internal/calendar"
	"utility_dashboard/internal/config"
	"utility_dashboard/internal/model"
	"utility_dashboard/internal/summary"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	mu           sync.Mutex
	messages     []published
	failOn       int
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failOn > 0 && len(c.messages)+1 == c.failOn {
		return &fakeToken{err: errors.New("broker gone")}
	}
	c.messages = append(c.messages, published{topic, qos, retained, payload.([]byte)})
	return &fakeToken{}
}

func (c *fakeClient) IsConnected() bool { return !c.disconnected }

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func overview() []summary.MonthOverview {
	return []summary.MonthOverview{
		{
			MonthTotal: summary.MonthTotal{
				Month:  calendar.Date(2025, 2, 1),
				Label:  "febrúar 2025",
				Totals: model.Totals{Total: 12000, Electricity: 8000, Water: 4000},
			},
			Change:   summary.Change{Total: 20, Electricity: 10, Water: 50},
			HasPrior: true,
		},
		{
			MonthTotal: summary.MonthTotal{
				Month:  calendar.Date(2025, 1, 1),
				Label:  "janúar 2025",
				Totals: model.Totals{Total: 10000, Electricity: 7272.73, Water: 2727.27},
			},
		},
	}
}

func TestTopic(t *testing.T) {
	p := NewWithClient(&fakeClient{}, "home/utility/", nil)
	assert.Equal(t, "home/utility/2025-02/cost", p.Topic(calendar.Date(2025, 2, 14)))
}

func TestMessage(t *testing.T) {
	months := overview()

	msg := Message(months[0])
	assert.Equal(t, "2025-02", msg.Month)
	assert.Equal(t, "12,000 kr.", msg.TotalText)
	require.NotNil(t, msg.Change)
	assert.InDelta(t, 20.0, msg.Change.Total, 1e-9)
	assert.Equal(t, "↑ 20.0%", msg.ChangeText)

	oldest := Message(months[1])
	assert.Nil(t, oldest.Change)
	assert.Empty(t, oldest.ChangeText)
}

func TestPublishOverview(t *testing.T) {
	client := &fakeClient{}
	p := NewWithClient(client, "dash", nil)

	n, err := p.PublishOverview(context.Background(), overview())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, client.messages, 2)
	first := client.messages[0]
	assert.Equal(t, "dash/2025-02/cost", first.topic)
	assert.True(t, first.retained)
	assert.Equal(t, byte(1), first.qos)

	var body map[string]any
	require.NoError(t, json.Unmarshal(first.payload, &body))
	assert.Equal(t, "febrúar 2025", body["label"])
	assert.InDelta(t, 12000.0, body["total"], 1e-9)

	_, hasChange := body["change"]
	assert.True(t, hasChange)

	var oldest map[string]any
	require.NoError(t, json.Unmarshal(client.messages[1].payload, &oldest))
	_, hasChange = oldest["change"]
	assert.False(t, hasChange)
}

func TestPublishOverview_StopsOnError(t *testing.T) {
	client := &fakeClient{failOn: 2}
	p := NewWithClient(client, "dash", nil)

	n, err := p.PublishOverview(context.Background(), overview())
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "dash/2025-01/cost")
}

func TestPublishOverview_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := NewWithClient(&fakeClient{}, "dash", nil).PublishOverview(ctx, overview())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestClose(t *testing.T) {
	client := &fakeClient{}
	NewWithClient(client, "dash", nil).Close()
	assert.True(t, client.disconnected)
}

func TestNew_Disabled(t *testing.T) {
	_, err := New(config.MQTTConfig{}, nil)
	assert.Error(t, err)

	_, err = New(config.MQTTConfig{Enabled: true}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker")
}

func TestBrokerURL(t *testing.T) {
	assert.Equal(t, "tcp://localhost:1883", brokerURL("localhost:1883"))
	assert.Equal(t, "ssl://broker:8883", brokerURL("ssl://broker:8883"))
}
