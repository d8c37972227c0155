// Package metrics counts what the editor does in a private Prometheus
// registry. Nothing is exported over HTTP; the REPL prints a snapshot.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is what the services and the REPL report to.
type Recorder interface {
	IncResolve(source string)
	IncCache(event string)
	IncReplace(outcome string)
	IncSave(result string)
	ObserveRequest(endpoint string, status int, d time.Duration)
}

// Cache events.
const (
	CacheHit     = "hit"
	CacheMiss    = "miss"
	CacheCorrupt = "corrupt"
)

type Metrics struct {
	registry        *prometheus.Registry
	resolveTotal    *prometheus.CounterVec
	cacheEvents     *prometheus.CounterVec
	replaceTotal    *prometheus.CounterVec
	saveTotal       *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers every collector in a fresh registry, so several instances
// can coexist in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		resolveTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "letterpress_resolve_total",
			Help: "Document resolutions by source",
		}, []string{"source"}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "letterpress_cache_events_total",
			Help: "Local cache lookups by result",
		}, []string{"event"}),
		replaceTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "letterpress_replace_total",
			Help: "Selection replacements by outcome",
		}, []string{"outcome"}),
		saveTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "letterpress_save_total",
			Help: "Save attempts by result",
		}, []string{"result"}),
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "letterpress_requests_total",
			Help: "API requests by endpoint and status class",
		}, []string{"endpoint", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "letterpress_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

func (m *Metrics) IncResolve(source string) {
	m.resolveTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) IncCache(event string) {
	m.cacheEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) IncReplace(outcome string) {
	m.replaceTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncSave(result string) {
	m.saveTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRequest(endpoint string, status int, d time.Duration) {
	m.requestsTotal.WithLabelValues(endpoint, statusBucket(status)).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// statusBucket maps 0 (no response) to "error".
func statusBucket(code int) string {
	switch {
	case code <= 0:
		return "error"
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// WriteTo prints one line per series, sorted, e.g.
//
//	letterpress_replace_total{outcome="range"} 3
func (m *Metrics) WriteTo(w io.Writer) (int64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return 0, fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			pairs := make([]string, 0, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			series := mf.GetName()
			if len(pairs) > 0 {
				series += "{" + strings.Join(pairs, ",") + "}"
			}

			switch {
			case metric.GetCounter() != nil:
				lines = append(lines, series+" "+strconv.FormatFloat(metric.GetCounter().GetValue(), 'f', -1, 64))
			case metric.GetHistogram() != nil:
				h := metric.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s count=%d sum=%.3fs", series, h.GetSampleCount(), h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)

	var n int64
	for _, l := range lines {
		k, err := fmt.Fprintln(w, l)
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Nop discards everything.
type Nop struct{}

func (Nop) IncResolve(string)                         {}
func (Nop) IncCache(string)                           {}
func (Nop) IncReplace(string)                         {}
func (Nop) IncSave(string)                            {}
func (Nop) ObserveRequest(string, int, time.Duration) {}
