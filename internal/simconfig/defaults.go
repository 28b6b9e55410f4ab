package simconfig

import (
	"context"
	"encoding/json"
)

// WindowHandle identifies the popup window the simulator opens for a
// connector. It is absent until a window is opened.
type WindowHandle struct {
	Name     string `json:"name"`
	Features string `json:"features"`
}

// State is the initial application state of the simulator UI.
type State struct {
	WdcAttrs                  WdcAttrs                   `json:"wdcAttrs"`
	AddressBarURL             string                     `json:"addressBarUrl"`
	WdcURL                    string                     `json:"wdcUrl"`
	MostRecentURLs            []string                   `json:"mostRecentUrls"`
	ShowAdvanced              bool                       `json:"showAdvanced"`
	WdcShouldFetchAllTables   bool                       `json:"wdcShouldFetchAllTables"`
	ShouldHaveGatherDataFrame bool                       `json:"shouldHaveGatherDataFrame"`
	CurrentPhase              Phase                      `json:"currentPhase"`
	PhaseInProgress           bool                       `json:"phaseInProgress"`
	PhaseSubmitCalled         bool                       `json:"phaseSubmitCalled"`
	PhaseInitCallbackCalled   bool                       `json:"phaseInitCallbackCalled"`
	SimulatorWindow           *WindowHandle              `json:"simulatorWindow"`
	Tables                    map[string]json.RawMessage `json:"tables"`
	StandardConnections       []json.RawMessage          `json:"standardConnections"`
}

// Sources records which defaults were taken from cookies.
type Sources struct {
	ShowAdvanced   bool `json:"showAdvanced"`
	MostRecentURLs bool `json:"mostRecentUrls"`
}

// Defaults holds the cookie-derived defaults. The zero value is not useful;
// obtain one from Load. A Defaults is immutable and safe for concurrent use.
type Defaults struct {
	showAdvanced   bool
	mostRecentURLs []string
	sources        Sources
}

// Load reads the showAdvanced and mostRecentUrls cookies from store and
// composes the defaults. A nil store behaves like an empty one. Absent or
// malformed cookies fall back to false and the sample list; an empty list
// falls back too, so the most-recent list is never empty.
func Load(ctx context.Context, store CookieStore) *Defaults {
	d := &Defaults{mostRecentURLs: Samples()}
	if store == nil {
		return d
	}

	if raw, ok := store.Get(ctx, CookieShowAdvanced); ok {
		var show bool
		if err := DecodeCookieValue(raw, &show); err == nil {
			d.showAdvanced = show
			d.sources.ShowAdvanced = true
		}
	}

	if raw, ok := store.Get(ctx, CookieMostRecentURLs); ok {
		var urls []string
		if err := DecodeCookieValue(raw, &urls); err == nil && len(urls) > 0 {
			d.mostRecentURLs = urls
			d.sources.MostRecentURLs = true
		}
	}

	return d
}

// ShowAdvanced reports whether the advanced form section starts expanded.
func (d *Defaults) ShowAdvanced() bool {
	return d.showAdvanced
}

// MostRecentURLs returns a copy of the most-recent URL list.
func (d *Defaults) MostRecentURLs() []string {
	out := make([]string, len(d.mostRecentURLs))
	copy(out, d.mostRecentURLs)
	return out
}

// DefaultURL is the first most-recent URL.
func (d *Defaults) DefaultURL() string {
	return d.mostRecentURLs[0]
}

// Sources reports which values came from cookies.
func (d *Defaults) Sources() Sources {
	return d.sources
}

// State builds a fresh initial application state. Callers own the result.
func (d *Defaults) State() State {
	return State{
		WdcAttrs:                  DefaultWdcAttrs(),
		AddressBarURL:             d.DefaultURL(),
		WdcURL:                    d.DefaultURL(),
		MostRecentURLs:            d.MostRecentURLs(),
		ShowAdvanced:              d.showAdvanced,
		WdcShouldFetchAllTables:   false,
		ShouldHaveGatherDataFrame: false,
		CurrentPhase:              PhaseInteractive,
		PhaseInProgress:           false,
		PhaseSubmitCalled:         false,
		PhaseInitCallbackCalled:   false,
		SimulatorWindow:           nil,
		Tables:                    map[string]json.RawMessage{},
		StandardConnections:       []json.RawMessage{},
	}
}

// MarshalJSON renders the defaults with their composed state.
func (d *Defaults) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ShowAdvanced   bool     `json:"showAdvanced"`
		MostRecentURLs []string `json:"mostRecentUrls"`
		DefaultURL     string   `json:"defaultUrl"`
		Sources        Sources  `json:"sources"`
		State          State    `json:"state"`
	}{
		ShowAdvanced:   d.showAdvanced,
		MostRecentURLs: d.MostRecentURLs(),
		DefaultURL:     d.DefaultURL(),
		Sources:        d.sources,
		State:          d.State(),
	})
}

// Constants bundles the static tables for clients that fetch them at once.
type Constants struct {
	EventNames  map[string]EventName `json:"eventNames"`
	Phases      map[string]Phase     `json:"phases"`
	WdcAttrs    WdcAttrs             `json:"defaultWdcAttrs"`
	Samples     []string             `json:"samples"`
	WindowProps string               `json:"windowProps"`
	VisOptions  VisOptions           `json:"visOptions"`
}

// StaticConstants returns the static tables.
func StaticConstants() Constants {
	return Constants{
		EventNames:  EventNames(),
		Phases:      Phases(),
		WdcAttrs:    DefaultWdcAttrs(),
		Samples:     Samples(),
		WindowProps: WindowProps,
		VisOptions:  DefaultVisOptions(),
	}
}
