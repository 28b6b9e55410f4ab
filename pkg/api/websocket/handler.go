package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aescanero/wdcsim/internal/application/relay"
	"github.com/aescanero/wdcsim/internal/ports"
	"github.com/aescanero/wdcsim/internal/simconfig"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	bufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // connector pages are served from arbitrary origins
	},
}

// inbound is a client frame
type inbound struct {
	Event   string          `json:"event"`
	Phase   string          `json:"phase,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// errorFrame reports a rejected client frame back to the sender
type errorFrame struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Handler handles WebSocket connections
type Handler struct {
	relay   *relay.Manager
	metrics ports.MetricsCollector
	logger  *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(manager *relay.Manager, metrics ports.MetricsCollector, logger *zap.Logger) *Handler {
	return &Handler{
		relay:   manager,
		metrics: metrics,
		logger:  logger,
	}
}

// HandleSessionStream relays messages of one session in both directions
func (h *Handler) HandleSessionStream(c *gin.Context) {
	sessionID := c.Param("id")

	// the stream ends when the session is closed
	ctx, cancel, err := h.relay.SessionContext(context.Background(), sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Session not found"}})
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	h.metrics.IncWebsocketConnections()
	defer h.metrics.DecWebsocketConnections()

	h.logger.Info("WebSocket connection established",
		zap.String("session_id", sessionID),
		zap.String("client", c.ClientIP()))

	out := make(chan interface{}, bufferSize)

	err = h.relay.Subscribe(ctx, sessionID, func(ctx context.Context, msg ports.Message) error {
		select {
		case out <- msg:
		case <-ctx.Done():
			return ctx.Err()
		default:
			h.logger.Warn("message channel full, dropping message",
				zap.String("session_id", sessionID),
				zap.String("message_id", msg.ID),
				zap.String("event", msg.Event.String()))
		}
		return nil
	})
	if err != nil {
		h.logger.Error("failed to subscribe to messages",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return
	}

	go h.readLoop(ctx, cancel, conn, sessionID, out)
	h.writeLoop(ctx, conn, sessionID, out)

	h.logger.Info("WebSocket connection closed", zap.String("session_id", sessionID))
}

// writeLoop is the only writer on conn
func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, sessionID string, out <-chan interface{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case frame := <-out:
			data, err := json.Marshal(frame)
			if err != nil {
				h.logger.Error("failed to marshal frame", zap.Error(err))
				continue
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Error("failed to write message",
					zap.String("session_id", sessionID),
					zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop publishes client frames until the connection drops
func (h *Handler) readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, sessionID string, out chan<- interface{}) {
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = h.relay.Touch(sessionID)
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read failed",
					zap.String("session_id", sessionID),
					zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var frame inbound
		if err := json.Unmarshal(data, &frame); err != nil {
			h.reply(ctx, out, errorFrame{Error: "frame is not valid JSON", Reason: relay.ReasonInvalidPayload})
			continue
		}

		event, err := relay.ParseEvent(frame.Event)
		if err == nil {
			_, err = h.relay.Publish(ctx, ports.Message{
				SessionID: sessionID,
				Event:     event,
				Phase:     simconfig.Phase(frame.Phase),
				Payload:   frame.Payload,
			})
		} else {
			h.metrics.RecordMessageRejected(relay.ReasonUnknownEvent)
		}
		if err != nil {
			var verr *relay.ValidationError
			if errors.As(err, &verr) {
				h.reply(ctx, out, errorFrame{Error: verr.Detail, Reason: verr.Reason})
				continue
			}
			if errors.Is(err, ports.ErrSessionNotFound) {
				h.reply(ctx, out, errorFrame{Error: "session closed"})
				return
			}
			h.reply(ctx, out, errorFrame{Error: "failed to relay message"})
		}
	}
}

func (h *Handler) reply(ctx context.Context, out chan<- interface{}, frame errorFrame) {
	select {
	case out <- frame:
	case <-ctx.Done():
	}
}
