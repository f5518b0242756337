package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects counters for one pipeline invocation. The values are
// meant for the node-exporter textfile collector since the tool is not a
// long-running process.
type Recorder struct {
	registry       *prometheus.Registry
	rows           *prometheus.CounterVec
	outputRecords  *prometheus.CounterVec
	outputFailures *prometheus.CounterVec
	duration       prometheus.Gauge
	lastRun        prometheus.Gauge
}

// NewRecorder registers the pipeline collectors on a private registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registration_rows_total",
		Help: "Input registration rows by validation outcome",
	}, []string{"status"})

	outputRecords := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registration_output_records_total",
		Help: "Records written per output kind",
	}, []string{"kind"})

	outputFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registration_output_failures_total",
		Help: "Output files that could not be written per output kind",
	}, []string{"kind"})

	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "registration_run_duration_seconds",
		Help: "Wall time of the last registration run",
	})

	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "registration_last_run_timestamp_seconds",
		Help: "Unix time the last registration run finished",
	})

	registry.MustRegister(rows, outputRecords, outputFailures, duration, lastRun)

	return &Recorder{
		registry:       registry,
		rows:           rows,
		outputRecords:  outputRecords,
		outputFailures: outputFailures,
		duration:       duration,
		lastRun:        lastRun,
	}
}

// ObserveRows records validation outcome counts.
func (r *Recorder) ObserveRows(valid, invalid int) {
	if r == nil {
		return
	}
	r.rows.WithLabelValues("valid").Add(float64(valid))
	r.rows.WithLabelValues("invalid").Add(float64(invalid))
}

// ObserveOutput records a written file.
func (r *Recorder) ObserveOutput(kind string, records int) {
	if r == nil {
		return
	}
	r.outputRecords.WithLabelValues(kind).Add(float64(records))
}

// ObserveFailure records an output that could not be written.
func (r *Recorder) ObserveFailure(kind string) {
	if r == nil {
		return
	}
	r.outputFailures.WithLabelValues(kind).Inc()
}

// ObserveRun records run duration and completion time.
func (r *Recorder) ObserveRun(started, finished time.Time) {
	if r == nil {
		return
	}
	r.duration.Set(finished.Sub(started).Seconds())
	r.lastRun.Set(float64(finished.Unix()))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile atomically writes the collected metrics in text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
