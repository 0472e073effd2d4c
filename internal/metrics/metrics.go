package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Recorder counts sync engine calls by operation and outcome. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the collectors on reg. Passing nil uses a private registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	r := &Recorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roster",
			Subsystem: "sync",
			Name:      "requests_total",
			Help:      "Remote calls issued by the sync engine, by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roster",
			Subsystem: "sync",
			Name:      "request_duration_seconds",
			Help:      "Latency of remote calls issued by the sync engine.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	reg.MustRegister(r.requests, r.duration)
	return r
}

// Observe records one finished call.
func (r *Recorder) Observe(op, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(op, outcome).Inc()
	r.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Reject records a call that never reached the remote (declined confirmation,
// missing id).
func (r *Recorder) Reject(op string) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(op, OutcomeRejected).Inc()
}

// Requests exposes the counter, mainly for tests.
func (r *Recorder) Requests() *prometheus.CounterVec {
	if r == nil {
		return nil
	}
	return r.requests
}
