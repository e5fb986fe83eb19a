package server

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/documents"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/editor"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	liveMessageUpdate = "update"
	liveMessageError  = "error"
	liveMessageEvent  = "event"
	writeWait         = 10 * time.Second
	maxInboundBytes   = 1 << 20
)

// liveMessage is one frame sent on a websocket.
type liveMessage struct {
	Type   string           `json:"type"`
	Update *session.Update  `json:"update,omitempty"`
	Event  *documents.Event `json:"event,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// handleLive streams session updates and applies commands received on the
// same socket. The first frame carries the current state.
func (h *httpHandler) handleLive(c *gin.Context, opened *session.Session) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("session_id", opened.ID()), zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxInboundBytes)
	h.expectPongs(conn)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	updates := make(chan session.Update, 1)
	unsubscribe := opened.Subscribe(func(update session.Update) {
		offerLatest(updates, update)
	})
	defer unsubscribe()

	failures := make(chan string, realtimeBufferSize)
	go h.readCommands(conn, opened, failures, cancel)

	snapshot := opened.Snapshot()
	initial := session.Update{
		Kind:     editor.ChangeLoaded,
		Revision: snapshot.Revision,
		Meta:     snapshot.Meta,
		Preview:  opened.Preview(),
	}
	if err := writeFrame(conn, liveMessage{Type: liveMessageUpdate, Update: &initial}); err != nil {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			if err := writeFrame(conn, liveMessage{Type: liveMessageUpdate, Update: &update}); err != nil {
				return
			}
		case code := <-failures:
			if err := writeFrame(conn, liveMessage{Type: liveMessageError, Error: code}); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readCommands executes inbound commands until the socket fails.
func (h *httpHandler) readCommands(conn *websocket.Conn, opened *session.Session, failures chan<- string, cancel context.CancelFunc) {
	defer cancel()
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var command editor.Command
		if err := json.Unmarshal(message, &command); err != nil {
			offerFailure(failures, "invalid_command")
			continue
		}
		if err := editor.Execute(opened.Store(), command); err != nil {
			h.logger.Debug("live command rejected",
				zap.String("session_id", opened.ID()),
				zap.String("op", command.Op),
				zap.Error(err))
			offerFailure(failures, commandErrorCode(err))
		}
	}
}

// handleEvents streams the caller's document events.
func (h *httpHandler) handleEvents(c *gin.Context) {
	owner, ok := h.ownerID(c)
	if !ok {
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("owner_id", owner.String()), zap.Error(err))
		return
	}
	defer conn.Close()
	h.expectPongs(conn)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	stream, unsubscribe := h.realtime.Subscribe(ctx, owner.String())
	defer unsubscribe()
	go discardInbound(conn, cancel)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case event, open := <-stream:
			if !open {
				return
			}
			if err := writeFrame(conn, liveMessage{Type: liveMessageEvent, Event: &event}); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// expectPongs fails the next read unless the peer answers a ping within the
// pong window. Each pong extends the window.
func (h *httpHandler) expectPongs(conn *websocket.Conn) {
	pongWait := h.heartbeat * 10 / 9
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

func discardInbound(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, message liveMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(message)
}

// offerLatest replaces any unsent update with update.
func offerLatest(updates chan session.Update, update session.Update) {
	for {
		select {
		case updates <- update:
			return
		default:
		}
		select {
		case <-updates:
		default:
		}
	}
}

func offerFailure(failures chan<- string, code string) {
	select {
	case failures <- code:
	default:
	}
}

func commandErrorCode(err error) string {
	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.target) {
			return mapping.code
		}
	}
	return "internal_error"
}
