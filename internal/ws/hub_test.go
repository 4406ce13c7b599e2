package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	payload := SetRangePayload{Start: "2025-02-01", End: "2025-02-28"}

	msg, err := NewEnvelope(TypeRangeSet, payload)
	require.NoError(t, err)

	var env Envelope
	err = json.Unmarshal(msg, &env)
	require.NoError(t, err)

	assert.Equal(t, TypeRangeSet, env.Type)

	var parsed SetRangePayload
	err = json.Unmarshal(env.Payload, &parsed)
	require.NoError(t, err)

	assert.Equal(t, "2025-02-01", parsed.Start)
	assert.Equal(t, "2025-02-28", parsed.End)
}

func TestNewEnvelope_NoPayload(t *testing.T) {
	msg, err := NewEnvelope(TypeSessionRefresh, nil)
	require.NoError(t, err)

	var env Envelope
	err = json.Unmarshal(msg, &env)
	require.NoError(t, err)

	assert.Equal(t, TypeSessionRefresh, env.Type)
	assert.Nil(t, env.Payload)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub(nil)

	c := newClient(hub, nil)
	assert.NotEmpty(t, c.ID())

	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())

	// Second unregister is a no-op.
	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub(nil)

	c1 := newClient(hub, nil)
	c2 := newClient(hub, nil)
	assert.NotEqual(t, c1.ID(), c2.ID())

	hub.Register(c1)
	hub.Register(c2)

	msg := []byte(`{"type":"test"}`)
	hub.Broadcast(msg)

	assert.Equal(t, msg, <-c1.send)
	assert.Equal(t, msg, <-c2.send)
}

func TestHub_Send(t *testing.T) {
	hub := NewHub(nil)

	c1 := newClient(hub, nil)
	c2 := newClient(hub, nil)
	hub.Register(c1)
	hub.Register(c2)

	hub.Send(c1, []byte("only-c1"))
	assert.Equal(t, []byte("only-c1"), <-c1.send)
	assert.Empty(t, c2.send)

	// Unregistered clients are skipped.
	stranger := newClient(hub, nil)
	hub.Send(stranger, []byte("x"))
	assert.Empty(t, stranger.send)
}

func TestHub_BroadcastDropsWhenFull(t *testing.T) {
	hub := NewHub(nil)
	c := &Client{id: "slow", hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)

	hub.Broadcast([]byte("a"))
	hub.Broadcast([]byte("b"))

	assert.Equal(t, []byte("a"), <-c.send)
	assert.Empty(t, c.send)
}

func TestMessageTypes(t *testing.T) {
	assert.Equal(t, "range:set", TypeRangeSet)
	assert.Equal(t, "preferences:set", TypePreferencesSet)
	assert.Equal(t, "grain:set", TypeGrainSet)
	assert.Equal(t, "session:refresh", TypeSessionRefresh)
	assert.Equal(t, "session:state", TypeSessionState)
	assert.Equal(t, "table:update", TypeTableUpdate)
	assert.Equal(t, "summary:update", TypeSummaryUpdate)
	assert.Equal(t, "error", TypeError)
}
