package provisioning

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/furiosa-env/internal/shell"
)

// Metrics collects step and command outcomes for one run. A nil *Metrics
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	stepsTotal    *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec
	abortsTotal   *prometheus.CounterVec
	commandsTotal *prometheus.CounterVec
	lastRun       prometheus.Gauge
}

// NewMetrics creates collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "furiosa_env",
				Subsystem: "step",
				Name:      "runs_total",
				Help:      "Total number of step runs by result",
			},
			[]string{"step", "result"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "furiosa_env",
				Subsystem: "step",
				Name:      "duration_seconds",
				Help:      "Duration of step runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12), // 500ms to ~17min
			},
			[]string{"step"},
		),
		abortsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "furiosa_env",
				Subsystem: "pipeline",
				Name:      "aborts_total",
				Help:      "Total number of pipeline aborts by failing step",
			},
			[]string{"step"},
		),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "furiosa_env",
				Subsystem: "command",
				Name:      "runs_total",
				Help:      "Total number of commands by privilege and result",
			},
			[]string{"privileged", "result"},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "furiosa_env",
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time of the last recorded step",
			},
		),
	}
	m.registry.MustRegister(m.stepsTotal, m.stepDuration, m.abortsTotal, m.commandsTotal, m.lastRun)
	return m
}

// RecordStep records a finished step.
func (m *Metrics) RecordStep(step string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.stepsTotal.WithLabelValues(step, result).Inc()
	m.stepDuration.WithLabelValues(step).Observe(duration.Seconds())
	m.lastRun.SetToCurrentTime()
}

// RecordAbort records the step that aborted a pipeline.
func (m *Metrics) RecordAbort(step string) {
	if m == nil {
		return
	}
	m.abortsTotal.WithLabelValues(step).Inc()
}

// RecordCommand records one command outcome.
func (m *Metrics) RecordCommand(spec shell.CommandSpec, res shell.Result, err error) {
	if m == nil {
		return
	}
	result := "succeeded"
	switch {
	case res.ExitCode < 0:
		result = "error"
	case !res.Succeeded:
		result = "failed"
	}
	m.commandsTotal.WithLabelValues(strconv.FormatBool(spec.Privileged), result).Inc()
}

// WriteTextfile writes all metrics in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
