package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"utility_dashboard/internal/logging"
	"utility_dashboard/internal/model"
	"utility_dashboard/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler manages WebSocket connections and routes messages to the session.
type Handler struct {
	hub     *Hub
	session *session.Session
	logger  *logging.Logger
}

func NewHandler(hub *Hub, s *session.Session) *Handler {
	return &Handler{hub: hub, session: s, logger: hub.logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := newClient(h.hub, conn)
	h.hub.Register(client)
	go client.writePump()

	// Bring the new client up to date.
	h.send(client, TypeSessionState, StateFromSession(h.session.State()))
	h.send(client, TypeTableUpdate, TableFromSession(h.session.Table()))
	h.send(client, TypeSummaryUpdate, SummaryFromSession(h.session.Summary()))

	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", "client_id", c.id, "error", err)
			}
			return
		}

		h.handleMessage(c, msg)
	}
}

func (h *Handler) handleMessage(c *Client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		h.reject(c, "", fmt.Errorf("invalid message: %w", err))
		return
	}

	switch env.Type {
	case TypeRangeSet:
		var p SetRangePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.reject(c, env.Type, fmt.Errorf("invalid payload: %w", err))
			return
		}
		r, err := parseRange(p)
		if err != nil {
			h.reject(c, env.Type, err)
			return
		}
		if err := h.session.SetRange(r); err != nil {
			h.reject(c, env.Type, err)
		}

	case TypePreferencesSet:
		var p PreferencesPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.reject(c, env.Type, fmt.Errorf("invalid payload: %w", err))
			return
		}
		if err := h.session.SetPreferences(p.Preferences()); err != nil {
			h.reject(c, env.Type, err)
		}

	case TypeGrainSet:
		var p SetGrainPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.reject(c, env.Type, fmt.Errorf("invalid payload: %w", err))
			return
		}
		if err := h.session.SetGrain(model.Grain(p.Grain)); err != nil {
			h.reject(c, env.Type, err)
		}

	case TypeSessionRefresh:
		h.session.Refresh()

	default:
		h.reject(c, env.Type, fmt.Errorf("unknown message type %q", env.Type))
	}
}

func parseRange(p SetRangePayload) (model.DateRange, error) {
	start, err := time.Parse(model.DateLayout, p.Start)
	if err != nil {
		return model.DateRange{}, &model.ValidationError{Field: "start", Value: p.Start, Message: "expected YYYY-MM-DD"}
	}
	end, err := time.Parse(model.DateLayout, p.End)
	if err != nil {
		return model.DateRange{}, &model.ValidationError{Field: "end", Value: p.End, Message: "expected YYYY-MM-DD"}
	}
	return model.DateRange{Start: start, End: end}, nil
}

// reject logs err and reports it to the requesting client only.
func (h *Handler) reject(c *Client, request string, err error) {
	h.logger.LogRejected(request, err)

	payload := ErrorPayload{Request: request, Message: err.Error()}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		payload.Field = verr.Field
		payload.Message = verr.Message
	}
	h.send(c, TypeError, payload)
}

func (h *Handler) send(c *Client, msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		h.logger.Error("marshal message", "type", msgType, "error", err)
		return
	}
	h.hub.Send(c, msg)
}
