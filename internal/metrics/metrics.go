// Package metrics exposes Prometheus collectors for serviceability checks,
// delivery scheduling and background jobs.
//
// A nil *Recorder is valid and records nothing, so components can be built
// without metrics in tests.
package metrics

import (
	"milkroute/internal/logger"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Serviceability check results
const (
	ResultServiceable    = "serviceable"
	ResultNotServiceable = "not_serviceable"
	ResultInvalid        = "invalid"
	ResultError          = "error"
)

// Recorder records application metrics
type Recorder struct {
	serviceabilityChecks *prometheus.CounterVec
	deliveriesScheduled  prometheus.Counter
	jobRuns              *prometheus.CounterVec
	jobDuration          *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them with reg.
// Registration failures are logged and the collector keeps working
// unregistered.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		serviceabilityChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "milkroute_serviceability_checks_total",
			Help: "Total number of serviceability checks by result.",
		}, []string{"result"}),
		deliveriesScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "milkroute_deliveries_scheduled_total",
			Help: "Total number of delivery rows created by delivery runs.",
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "milkroute_job_runs_total",
			Help: "Total number of background job runs by outcome.",
		}, []string{"job", "status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "milkroute_job_duration_seconds",
			Help:    "Duration of background job runs in seconds.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"job"}),
	}

	r.register(reg, r.serviceabilityChecks, "milkroute_serviceability_checks_total")
	r.register(reg, r.deliveriesScheduled, "milkroute_deliveries_scheduled_total")
	r.register(reg, r.jobRuns, "milkroute_job_runs_total")
	r.register(reg, r.jobDuration, "milkroute_job_duration_seconds")
	return r
}

func (r *Recorder) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if reg == nil {
		return
	}
	if err := reg.Register(c); err != nil {
		logger.Log.WithError(err).Warnf("metrics: failed to register %s", name)
	}
}

// ServiceabilityCheck counts one check with the given result
func (r *Recorder) ServiceabilityCheck(result string) {
	if r == nil {
		return
	}
	r.serviceabilityChecks.WithLabelValues(result).Inc()
}

// DeliveriesScheduled adds n newly created deliveries
func (r *Recorder) DeliveriesScheduled(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.deliveriesScheduled.Add(float64(n))
}

// JobRun records the outcome and duration of one job run
func (r *Recorder) JobRun(job string, err error, duration time.Duration) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	r.jobRuns.WithLabelValues(job, status).Inc()
	r.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}
