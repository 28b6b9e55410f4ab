package simconfig

import (
	"errors"
	"fmt"
)

// ErrUnknownPhase is returned when a wire string names no known phase.
var ErrUnknownPhase = errors.New("unknown phase")

// Phase is one stage of the connector lifecycle.
type Phase string

const (
	PhaseInteractive Phase = "interactive"
	PhaseAuth        Phase = "auth"
	PhaseGatherData  Phase = "gatherData"
)

var phaseSymbols = []struct {
	symbol string
	phase  Phase
}{
	{"INTERACTIVE", PhaseInteractive},
	{"AUTH", PhaseAuth},
	{"GATHER_DATA", PhaseGatherData},
}

// Phases returns the registry keyed by symbolic name.
func Phases() map[string]Phase {
	out := make(map[string]Phase, len(phaseSymbols))
	for _, p := range phaseSymbols {
		out[p.symbol] = p.phase
	}
	return out
}

// ParsePhase maps a wire string to its Phase.
func ParsePhase(s string) (Phase, error) {
	for _, p := range phaseSymbols {
		if string(p.phase) == s {
			return p.phase, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPhase, s)
}

func (p Phase) String() string {
	return string(p)
}

// Valid reports whether p is a registered phase.
func (p Phase) Valid() bool {
	_, err := ParsePhase(string(p))
	return err == nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPhase, string(p))
	}
	return []byte(p), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
