package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mbrl"

// Recorder exports learning metrics to prometheus. Every method is a no-op
// on a nil Recorder.
type Recorder struct {
	registry *prometheus.Registry

	backups    *prometheus.CounterVec
	iterations *prometheus.CounterVec
	episodes   *prometheus.CounterVec
	delta      *prometheus.GaugeVec
	states     *prometheus.GaugeVec
	duration   *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		backups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backups_total",
			Help:      "Number of value or Q-value updates performed",
		}, []string{"algorithm"}),
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Number of sweeps, outer iterations or update batches",
		}, []string{"algorithm"}),
		episodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "episodes_total",
			Help:      "Number of episodes run by online learners",
		}, []string{"algorithm"}),
		delta: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "delta",
			Help:      "Largest value change observed in the last iteration",
		}, []string{"algorithm"}),
		states: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "discovered_states",
			Help:      "Number of states known to the environment",
		}, []string{"algorithm"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "learn_duration_seconds",
			Help:      "Time spent in learn",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"algorithm"}),
	}
	r.registry.MustRegister(r.backups, r.iterations, r.episodes, r.delta, r.states, r.duration)
	return r
}

// Registry returns the registry holding the metrics
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Backups adds n updates for algorithm
func (r *Recorder) Backups(algorithm string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.backups.WithLabelValues(algorithm).Add(float64(n))
}

// Iteration records the end of an iteration with the observed delta
func (r *Recorder) Iteration(algorithm string, delta float64) {
	if r == nil {
		return
	}
	r.iterations.WithLabelValues(algorithm).Inc()
	r.delta.WithLabelValues(algorithm).Set(delta)
}

// Episode records the end of an episode
func (r *Recorder) Episode(algorithm string) {
	if r == nil {
		return
	}
	r.episodes.WithLabelValues(algorithm).Inc()
}

// States sets the number of discovered states
func (r *Recorder) States(algorithm string, n int) {
	if r == nil {
		return
	}
	r.states.WithLabelValues(algorithm).Set(float64(n))
}

// ObserveLearn records the duration of a learn call
func (r *Recorder) ObserveLearn(algorithm string, d time.Duration) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(algorithm).Observe(d.Seconds())
}
