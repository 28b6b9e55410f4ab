package simconfig

import (
	"errors"
	"fmt"
)

// ErrUnknownEventName is returned when a wire string names no known event.
var ErrUnknownEventName = errors.New("unknown event name")

// EventName tags a message exchanged between the simulator and an embedded
// connector page. The value is the wire string.
type EventName string

const (
	EventLoaded       EventName = "loaded"
	EventLog          EventName = "log"
	EventInit         EventName = "init"
	EventInitCallback EventName = "initCallback"
	EventSubmit       EventName = "submit"
	EventSchemaGet    EventName = "getSchema"
	EventSchemaCB     EventName = "_schemaCallback"
	EventDataGet      EventName = "getData"
	EventDataCB       EventName = "_tableDataCallback"
	EventDataDoneCB   EventName = "_dataDoneCallback"
	EventShutdown     EventName = "shutdown"
	EventShutdownCB   EventName = "shutdownCallback"
	EventAbort        EventName = "abortWithError"
	EventAbortAuth    EventName = "abortForAuth"
)

// eventSymbols keeps registry order and the symbolic names the UI uses.
var eventSymbols = []struct {
	symbol string
	name   EventName
}{
	{"LOADED", EventLoaded},
	{"LOG", EventLog},
	{"INIT", EventInit},
	{"INIT_CB", EventInitCallback},
	{"SUBMIT", EventSubmit},
	{"SCHEMA_GET", EventSchemaGet},
	{"SCHEMA_CB", EventSchemaCB},
	{"DATA_GET", EventDataGet},
	{"DATA_CB", EventDataCB},
	{"DATA_DONE_CB", EventDataDoneCB},
	{"SHUTDOWN", EventShutdown},
	{"SHUTDOWN_CB", EventShutdownCB},
	{"ABORT", EventAbort},
	{"ABORT_AUTH", EventAbortAuth},
}

// EventNames returns the registry keyed by symbolic name, e.g. "INIT_CB" ->
// "initCallback". The map is a fresh copy.
func EventNames() map[string]EventName {
	out := make(map[string]EventName, len(eventSymbols))
	for _, e := range eventSymbols {
		out[e.symbol] = e.name
	}
	return out
}

// ParseEventName maps a wire string to its EventName.
func ParseEventName(s string) (EventName, error) {
	for _, e := range eventSymbols {
		if string(e.name) == s {
			return e.name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEventName, s)
}

// String returns the wire string.
func (e EventName) String() string {
	return string(e)
}

// Symbol returns the symbolic registry name, or "" for unknown values.
func (e EventName) Symbol() string {
	for _, s := range eventSymbols {
		if s.name == e {
			return s.symbol
		}
	}
	return ""
}

// Valid reports whether e is one of the registered event names.
func (e EventName) Valid() bool {
	return e.Symbol() != ""
}

// MarshalText implements encoding.TextMarshaler.
func (e EventName) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventName, string(e))
	}
	return []byte(e), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown names.
func (e *EventName) UnmarshalText(text []byte) error {
	parsed, err := ParseEventName(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
