package ws

import (
	"utility_dashboard/internal/logging"
	"utility_dashboard/internal/session"
)

// Bridge implements session.Callback and broadcasts events to the WebSocket hub.
type Bridge struct {
	hub    *Hub
	logger *logging.Logger
}

func NewBridge(hub *Hub) *Bridge {
	return &Bridge{hub: hub, logger: hub.logger}
}

func (b *Bridge) OnState(s session.State) {
	b.broadcast(TypeSessionState, StateFromSession(s))
}

func (b *Bridge) OnTable(t session.Table) {
	b.broadcast(TypeTableUpdate, TableFromSession(t))
}

func (b *Bridge) OnSummary(s session.Summary) {
	b.broadcast(TypeSummaryUpdate, SummaryFromSession(s))
}

func (b *Bridge) broadcast(msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		b.logger.Error("marshal message", "type", msgType, "error", err)
		return
	}
	b.hub.Broadcast(msg)
}
