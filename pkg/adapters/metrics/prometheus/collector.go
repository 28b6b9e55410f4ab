package prometheus

import (
	"github.com/aescanero/wdcsim/internal/simconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements MetricsCollector using Prometheus
type Collector struct {
	defaultsLoaded       *prometheus.CounterVec
	cookieFallbacks      *prometheus.CounterVec
	preferenceWrites     *prometheus.CounterVec
	messagesRelayed      *prometheus.CounterVec
	messagesRejected     *prometheus.CounterVec
	activeSessions       prometheus.Gauge
	websocketConnections prometheus.Gauge
}

// NewCollector creates a collector registered with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		defaultsLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wdcsim_defaults_loaded_total",
				Help: "Total number of simulator defaults loaded, by most-recent URL source",
			},
			[]string{"source"},
		),
		cookieFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wdcsim_cookie_fallbacks_total",
				Help: "Total number of cookies that were absent or malformed and replaced by a default",
			},
			[]string{"cookie"},
		),
		preferenceWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wdcsim_preference_writes_total",
				Help: "Total number of preference updates",
			},
			[]string{"backend"},
		),
		messagesRelayed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wdcsim_messages_relayed_total",
				Help: "Total number of connector messages relayed",
			},
			[]string{"event"},
		),
		messagesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wdcsim_messages_rejected_total",
				Help: "Total number of connector messages rejected",
			},
			[]string{"reason"},
		),
		activeSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "wdcsim_active_sessions",
				Help: "Number of open relay sessions",
			},
		),
		websocketConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "wdcsim_websocket_connections",
				Help: "Number of connected relay websockets",
			},
		),
	}
}

// RecordDefaultsLoaded records one defaults load and its cookie fallbacks
func (c *Collector) RecordDefaultsLoaded(sources simconfig.Sources) {
	source := "sample"
	if sources.MostRecentURLs {
		source = "cookie"
	}
	c.defaultsLoaded.WithLabelValues(source).Inc()

	if !sources.MostRecentURLs {
		c.cookieFallbacks.WithLabelValues(simconfig.CookieMostRecentURLs).Inc()
	}
	if !sources.ShowAdvanced {
		c.cookieFallbacks.WithLabelValues(simconfig.CookieShowAdvanced).Inc()
	}
}

// RecordPreferenceWrite records a preference update
func (c *Collector) RecordPreferenceWrite(backend string) {
	c.preferenceWrites.WithLabelValues(backend).Inc()
}

// RecordMessageRelayed records a relayed connector message
func (c *Collector) RecordMessageRelayed(event simconfig.EventName) {
	c.messagesRelayed.WithLabelValues(event.String()).Inc()
}

// RecordMessageRejected records a rejected connector message
func (c *Collector) RecordMessageRejected(reason string) {
	c.messagesRejected.WithLabelValues(reason).Inc()
}

// SetActiveSessions sets the number of open relay sessions
func (c *Collector) SetActiveSessions(count int) {
	c.activeSessions.Set(float64(count))
}

// IncWebsocketConnections increments the connected websocket gauge
func (c *Collector) IncWebsocketConnections() {
	c.websocketConnections.Inc()
}

// DecWebsocketConnections decrements the connected websocket gauge
func (c *Collector) DecWebsocketConnections() {
	c.websocketConnections.Dec()
}
