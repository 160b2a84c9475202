// Package metrics exposes allocation counters and pool gauges in Prometheus format.
//
// The CLI is short-lived, so the registry is written out in node-exporter textfile
// format after each command instead of being served over HTTP. Every command starts
// a fresh registry and overwrites the file: the counters hold the events of the last
// command only. The resource and pending gauges are read from the database and carry
// the cumulative state.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "device_loans"

// Absence outcomes
const (
	AbsenceRescheduled = "rescheduled"
	AbsenceRemoved     = "removed"
)

// Recorder holds every metric on a private registry
type Recorder struct {
	registry *prometheus.Registry

	applicantsRegistered prometheus.Counter
	assignmentsCreated   prometheus.Counter
	deliveries           prometheus.Counter
	absences             *prometheus.CounterVec
	resources            *prometheus.GaugeVec
	pending              prometheus.Gauge
	batchSize            prometheus.Histogram
}

// NewRecorder creates a Recorder on a fresh registry
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Recorder{
		registry: registry,
		applicantsRegistered: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applicants_registered_total",
			Help:      "Applicants registered or imported by the last command",
		}),
		assignmentsCreated: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_created_total",
			Help:      "Assignments written by the last command",
		}),
		deliveries: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Devices handed over in the last command",
		}),
		absences: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "absences_total",
			Help:      "No-shows recorded by the last command, by outcome",
		}, []string{"outcome"}),
		resources: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resources",
			Help:      "Resources in the pool by state",
		}, []string{"state"}),
		pending: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "applicants_pending",
			Help:      "Applicants waiting for a device",
		}),
		batchSize: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "allocation_batch_size",
			Help:      "Assignments created per allocation run",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
}

// Registry is the underlying registry, used by tests and the textfile writer
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ApplicantsRegistered(n int) {
	r.applicantsRegistered.Add(float64(n))
}

// AllocationCompleted records one allocation run that created n assignments
func (r *Recorder) AllocationCompleted(n int) {
	r.assignmentsCreated.Add(float64(n))
	r.batchSize.Observe(float64(n))
}

func (r *Recorder) Delivered() {
	r.deliveries.Inc()
}

// Absent records a no-show with outcome AbsenceRescheduled or AbsenceRemoved
func (r *Recorder) Absent(outcome string) {
	r.absences.WithLabelValues(outcome).Inc()
}

// SetPool records the current resource pool and pending queue sizes
func (r *Recorder) SetPool(available, assigned, pending int) {
	r.resources.WithLabelValues("available").Set(float64(available))
	r.resources.WithLabelValues("assigned").Set(float64(assigned))
	r.pending.Set(float64(pending))
}

// WriteTextfile writes the registry atomically to path, replacing the previous command's file
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
