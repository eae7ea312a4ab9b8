// Package prometheus records scrape metrics with the Prometheus client and
// exports them in the text exposition format.
package prometheus

import (
	"context"
	"errors"
	"time"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/96nitishkumar/hotelscraper/crawl"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hotelscraper"

// Metrics holds the collectors for one scrape run on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	FetchAttempts *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	Candidates    *prometheus.CounterVec
	Discovered    prometheus.Gauge
	FieldHits     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FetchAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "fetch_attempts_total", Help: "Fetch attempts by outcome."},
			[]string{"outcome"},
		),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_attempt_duration_seconds",
			Help:      "Duration of single fetch attempts.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		Candidates: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "candidates_total", Help: "Processed candidates by outcome."},
			[]string{"outcome"}, // completed|failed
		),
		Discovered: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "candidates_discovered", Help: "Candidates scheduled in the last run."},
		),
		FieldHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "field_hits_total", Help: "Records carrying each field."},
			[]string{"field"},
		),
	}
	m.Registry.MustRegister(m.FetchAttempts, m.FetchDuration, m.Candidates, m.Discovered, m.FieldHits)
	return m
}

// ObserveFetch records one fetch attempt.
func (m *Metrics) ObserveFetch(err error, dur time.Duration) {
	m.FetchAttempts.WithLabelValues(Outcome(err)).Inc()
	m.FetchDuration.Observe(dur.Seconds())
}

// ObserveProgress records an orchestrator progress event. It has the
// signature of crawl.ProgressFunc.
func (m *Metrics) ObserveProgress(e crawl.ProgressEvent) {
	switch e.Type {
	case crawl.ProgressStarted:
		m.Discovered.Set(float64(e.Total))
	case crawl.ProgressCompleted:
		m.Candidates.WithLabelValues("completed").Inc()
	case crawl.ProgressFailed:
		m.Candidates.WithLabelValues("failed").Inc()
	}
}

// ObserveRecord counts the fields present on rec.
func (m *Metrics) ObserveRecord(rec hotelscraper.HotelRecord) {
	for field, ok := range map[string]bool{
		"name":      rec.Name != nil,
		"address":   rec.Address != nil,
		"phone":     rec.Phone != nil,
		"email":     rec.Email != nil,
		"latitude":  rec.Latitude != nil,
		"longitude": rec.Longitude != nil,
	} {
		if ok {
			m.FieldHits.WithLabelValues(field).Inc()
		}
	}
}

// WriteTextfile writes all metrics to path in the text exposition format,
// suitable for the node exporter's textfile collector. The file is
// replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return hotelscraper.WrapError(hotelscraper.EINTERNAL, err, "write metrics to %s", path)
	}
	return nil
}

// Outcome is the label value for a fetch result.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	return hotelscraper.ErrorCode(err)
}
