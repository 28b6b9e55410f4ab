package ports

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aescanero/wdcsim/internal/simconfig"
)

var (
	// ErrSessionNotFound is returned for unknown or closed relay sessions.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidMessage is returned when a relay message fails validation.
	ErrInvalidMessage = errors.New("invalid message")
)

// MessagesTopic is the event bus topic connector messages are published to.
const MessagesTopic = "wdc.messages"

// Message is a tagged message between the simulator and a connector page.
type Message struct {
	ID        string              `json:"id"`
	SessionID string              `json:"session_id"`
	Event     simconfig.EventName `json:"event"`
	Phase     simconfig.Phase     `json:"phase,omitempty"`
	Payload   json.RawMessage     `json:"payload,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// MessageHandler processes a message delivered by an EventBus.
type MessageHandler func(ctx context.Context, msg Message) error

// EventBus fans out messages to every subscriber of a topic. Subscriptions
// end when the subscribing context is cancelled.
type EventBus interface {
	Publish(ctx context.Context, topic string, msg Message) error
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error
	Close() error
}

// CookieJar is a readable and writable cookie store.
type CookieJar interface {
	simconfig.CookieStore
	Set(ctx context.Context, name, value string) error
	Remove(ctx context.Context, name string) error
}

// MetricsCollector records wdcsim metrics.
type MetricsCollector interface {
	RecordDefaultsLoaded(sources simconfig.Sources)
	RecordPreferenceWrite(backend string)
	RecordMessageRelayed(event simconfig.EventName)
	RecordMessageRejected(reason string)
	SetActiveSessions(count int)
	IncWebsocketConnections()
	DecWebsocketConnections()
}
