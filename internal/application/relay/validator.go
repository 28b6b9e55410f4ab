package relay

import (
	"encoding/json"
	"fmt"

	"github.com/aescanero/wdcsim/internal/ports"
	"github.com/aescanero/wdcsim/internal/simconfig"
)

// Rejection reasons reported by ValidationError.
const (
	ReasonMissingSession = "missing_session"
	ReasonUnknownEvent   = "unknown_event"
	ReasonUnknownPhase   = "unknown_phase"
	ReasonInvalidPayload = "invalid_payload"
	ReasonPayloadTooBig  = "payload_too_large"
)

// ValidationError describes why a message was rejected. It matches
// ports.ErrInvalidMessage with errors.Is.
type ValidationError struct {
	Reason string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid message (%s): %s", e.Reason, e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return ports.ErrInvalidMessage
}

// Validator validates relay messages
type Validator struct {
	maxPayloadBytes int
}

// NewValidator creates a validator. maxPayloadBytes <= 0 disables the size check.
func NewValidator(maxPayloadBytes int) *Validator {
	return &Validator{maxPayloadBytes: maxPayloadBytes}
}

// Validate checks a message before it is published
func (v *Validator) Validate(msg ports.Message) error {
	if msg.SessionID == "" {
		return &ValidationError{Reason: ReasonMissingSession, Detail: "session ID is required"}
	}

	if !msg.Event.Valid() {
		return &ValidationError{Reason: ReasonUnknownEvent, Detail: fmt.Sprintf("event %q is not registered", string(msg.Event))}
	}

	if msg.Phase != "" && !msg.Phase.Valid() {
		return &ValidationError{Reason: ReasonUnknownPhase, Detail: fmt.Sprintf("phase %q is not registered", string(msg.Phase))}
	}

	if len(msg.Payload) > 0 {
		if v.maxPayloadBytes > 0 && len(msg.Payload) > v.maxPayloadBytes {
			return &ValidationError{Reason: ReasonPayloadTooBig, Detail: fmt.Sprintf("payload is %d bytes, limit is %d", len(msg.Payload), v.maxPayloadBytes)}
		}
		if !json.Valid(msg.Payload) {
			return &ValidationError{Reason: ReasonInvalidPayload, Detail: "payload is not valid JSON"}
		}
	}

	return nil
}

// ParseEvent converts a wire event name, reporting unknown names as a
// ValidationError.
func ParseEvent(s string) (simconfig.EventName, error) {
	e, err := simconfig.ParseEventName(s)
	if err != nil {
		return "", &ValidationError{Reason: ReasonUnknownEvent, Detail: err.Error()}
	}
	return e, nil
}
