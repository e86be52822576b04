// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

type Metrics struct {
	// Diary
	EntriesLoggedTotal *prometheus.CounterVec
	AnalysesTotal      *prometheus.CounterVec
	AnalysisDuration   prometheus.Histogram

	// Reminder scheduler
	SchedulerTicksTotal   prometheus.Counter
	SchedulerTickErrors   prometheus.Counter
	RemindersFiredTotal   prometheus.Counter
	RemindersDedupedTotal prometheus.Counter
	TickDuration          prometheus.Histogram

	// Notifications
	AlertsTotal       *prometheus.CounterVec
	StreamSubscribers prometheus.Gauge
}

// Get returns the process-wide metrics, registering them on first use.
//
// Metrics:
//   - nutrilife_entries_logged_total{kind} - food and activity entries created
//   - nutrilife_analyses_total{result} - photo analyses by outcome
//   - nutrilife_analysis_duration_seconds - analyzer latency
//   - nutrilife_scheduler_ticks_total - reminder ticks evaluated
//   - nutrilife_scheduler_tick_errors_total - ticks that failed to load or panicked
//   - nutrilife_reminders_fired_total - due reminders handed to the dispatcher
//   - nutrilife_reminders_deduped_total - due reminders suppressed by dedupe
//   - nutrilife_scheduler_tick_duration_seconds - tick latency
//   - nutrilife_alerts_total{outcome} - dispatcher outcomes (delivered, skipped, failed)
//   - nutrilife_stream_subscribers - open SSE alert streams
func Get() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			EntriesLoggedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "nutrilife_entries_logged_total",
					Help: "Total number of diary entries created",
				},
				[]string{"kind"}, // "food", "food_analyzed", "activity"
			),
			AnalysesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "nutrilife_analyses_total",
					Help: "Total number of photo analyses",
				},
				[]string{"result"}, // "ok", "error", "canceled"
			),
			AnalysisDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "nutrilife_analysis_duration_seconds",
					Help:    "Duration of photo analysis in seconds",
					Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
				},
			),
			SchedulerTicksTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "nutrilife_scheduler_ticks_total",
					Help: "Total number of reminder scheduler ticks",
				},
			),
			SchedulerTickErrors: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "nutrilife_scheduler_tick_errors_total",
					Help: "Total number of reminder ticks that failed",
				},
			),
			RemindersFiredTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "nutrilife_reminders_fired_total",
					Help: "Total number of due reminders dispatched",
				},
			),
			RemindersDedupedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "nutrilife_reminders_deduped_total",
					Help: "Total number of due reminders suppressed as already fired this minute",
				},
			),
			TickDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "nutrilife_scheduler_tick_duration_seconds",
					Help:    "Duration of a reminder tick in seconds",
					Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
				},
			),
			AlertsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "nutrilife_alerts_total",
					Help: "Total number of reminder alerts by outcome",
				},
				[]string{"outcome"},
			),
			StreamSubscribers: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "nutrilife_stream_subscribers",
					Help: "Number of open alert streams",
				},
			),
		}
	})
	return globalMetrics
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
