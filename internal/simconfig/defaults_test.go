package simconfig

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore map[string]string

func (m mapStore) Get(_ context.Context, name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func encoded(t *testing.T, v any) string {
	t.Helper()
	s, err := EncodeCookieValue(v)
	require.NoError(t, err)
	return s
}

func TestLoad_EmptyStoreUsesSamples(t *testing.T) {
	d := Load(context.Background(), mapStore{})

	assert.Equal(t, Samples(), d.MostRecentURLs())
	assert.Equal(t, "../Examples/html/earthquakeUSGS.html", d.DefaultURL())
	assert.False(t, d.ShowAdvanced())
	assert.Equal(t, Sources{}, d.Sources())
}

func TestLoad_NilStore(t *testing.T) {
	d := Load(context.Background(), nil)
	assert.Equal(t, "../Examples/html/earthquakeUSGS.html", d.DefaultURL())
	assert.False(t, d.ShowAdvanced())
}

func TestLoad_CookieURLs(t *testing.T) {
	store := mapStore{CookieMostRecentURLs: encoded(t, []string{"a.html", "b.html"})}

	d := Load(context.Background(), store)

	assert.Equal(t, []string{"a.html", "b.html"}, d.MostRecentURLs())
	assert.Equal(t, "a.html", d.DefaultURL())
	assert.True(t, d.Sources().MostRecentURLs)
}

func TestLoad_ShowAdvanced(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"true", "true", true},
		{"false", "false", false},
		{"quoted escape", encoded(t, true), true},
		{"not json", "yes", false},
		{"number", "1", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Load(context.Background(), mapStore{CookieShowAdvanced: tt.raw})
			assert.Equal(t, tt.want, d.ShowAdvanced())
		})
	}
}

func TestLoad_MalformedURLsFallBack(t *testing.T) {
	for _, raw := range []string{"", "not-json", "%5B", `{"a":1}`, "[1,2]", "[]", "null"} {
		d := Load(context.Background(), mapStore{CookieMostRecentURLs: raw})
		assert.Equal(t, Samples(), d.MostRecentURLs(), "raw=%q", raw)
		assert.False(t, d.Sources().MostRecentURLs, "raw=%q", raw)
	}
}

func TestLoad_UnescapedJSONAccepted(t *testing.T) {
	d := Load(context.Background(), mapStore{CookieMostRecentURLs: `["x.html"]`})
	assert.Equal(t, "x.html", d.DefaultURL())
}

func TestDefaults_CopiesAreIndependent(t *testing.T) {
	d := Load(context.Background(), mapStore{})

	urls := d.MostRecentURLs()
	urls[0] = "mutated"
	st := d.State()
	st.MostRecentURLs[0] = "mutated"
	st.Tables["t"] = json.RawMessage(`{}`)

	assert.Equal(t, "../Examples/html/earthquakeUSGS.html", d.DefaultURL())
	assert.Empty(t, d.State().Tables)
	assert.Equal(t, "../Examples/html/earthquakeUSGS.html", Samples()[0])
}

func TestDefaults_State(t *testing.T) {
	store := mapStore{
		CookieShowAdvanced:   "true",
		CookieMostRecentURLs: encoded(t, []string{"a.html", "b.html"}),
	}
	st := Load(context.Background(), store).State()

	assert.Equal(t, PhaseInteractive, st.CurrentPhase)
	assert.Equal(t, "a.html", st.AddressBarURL)
	assert.Equal(t, "a.html", st.WdcURL)
	assert.Equal(t, []string{"a.html", "b.html"}, st.MostRecentURLs)
	assert.True(t, st.ShowAdvanced)
	assert.False(t, st.PhaseInProgress)
	assert.False(t, st.PhaseSubmitCalled)
	assert.False(t, st.PhaseInitCallbackCalled)
	assert.False(t, st.WdcShouldFetchAllTables)
	assert.False(t, st.ShouldHaveGatherDataFrame)
	assert.Nil(t, st.SimulatorWindow)
	assert.Equal(t, DefaultWdcAttrs(), st.WdcAttrs)
}

func TestDefaults_StateJSON(t *testing.T) {
	data, err := json.Marshal(Load(context.Background(), mapStore{}).State())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Nil(t, got["simulatorWindow"])
	assert.Contains(t, got, "simulatorWindow")
	assert.Equal(t, map[string]any{}, got["tables"])
	assert.Equal(t, []any{}, got["standardConnections"])
	assert.Equal(t, "interactive", got["currentPhase"])
	assert.Len(t, got, 14)
}

func TestDefaults_MarshalJSON(t *testing.T) {
	d := Load(context.Background(), mapStore{CookieShowAdvanced: "true"})
	data, err := json.Marshal(d)
	require.NoError(t, err)

	var got struct {
		ShowAdvanced bool     `json:"showAdvanced"`
		DefaultURL   string   `json:"defaultUrl"`
		URLs         []string `json:"mostRecentUrls"`
		Sources      Sources  `json:"sources"`
		State        State    `json:"state"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, got.ShowAdvanced)
	assert.Equal(t, got.URLs[0], got.DefaultURL)
	assert.Equal(t, Sources{ShowAdvanced: true}, got.Sources)
	assert.Equal(t, PhaseInteractive, got.State.CurrentPhase)
}

func TestDefaultWdcAttrs(t *testing.T) {
	attrs := DefaultWdcAttrs()
	assert.Equal(t, WdcAttrs{AuthPurpose: "ephemeral", Locale: "en-us"}, attrs)
}

func TestSamples(t *testing.T) {
	assert.Equal(t, []string{
		"../Examples/html/earthquakeUSGS.html",
		"../Examples/html/earthquakeMultitable.html",
		"../Examples/html/earthquakeMultilingual.html",
		"../Examples/html/IncrementalRefreshConnector.html",
		"../Examples/html/MadMoneyScraper.html",
	}, Samples())
	assert.Equal(t, "height=500,width=800", WindowProps)
}

func TestDefaultVisOptionsJSON(t *testing.T) {
	data, err := json.Marshal(DefaultVisOptions())
	require.NoError(t, err)

	want := `{
		"layout": {"hierarchical": {"direction": "LR"}},
		"nodes": {
			"borderWidth": 8,
			"borderWidthSelected": 12,
			"color": {"border": "#e1e1e1", "background": "#e1e1e1", "highlight": "#2dcc97", "hover": "#cbcbcb"},
			"font": {"color": "#000000"},
			"shape": "box",
			"shapeProperties": {"borderRadius": 0}
		},
		"edges": {
			"color": {"color": "#355c80", "highlight": "#2dcc97", "hover": "#00b180"},
			"smooth": {"enabled": true, "type": "cubicBezier", "roundness": 0.6}
		},
		"interaction": {"hover": true, "zoomView": false}
	}`
	assert.JSONEq(t, want, string(data))
}
