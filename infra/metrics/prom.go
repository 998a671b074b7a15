package metrics

import (
	"strconv"

	coremetrics "github.com/kilianp07/smartreg/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records planner activity in Prometheus metrics.
type PromSink struct {
	runs        *prometheus.CounterVec
	bestScore   prometheus.Histogram
	enrollments *prometheus.CounterVec
	latency     prometheus.Histogram
	sections    prometheus.Gauge
	defects     prometheus.Gauge
	sessions    prometheus.Gauge
	transitions *prometheus.CounterVec
}

// NewPromSink registers planner metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already present on the registerer are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_generation_runs_total",
			Help: "Generation runs by outcome status",
		}, []string{"status"}),
		bestScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_best_score",
			Help:    "Score of the top ranked schedule per successful run",
			Buckets: []float64{0, 100, 200, 300, 400, 500, 600, 700},
		}),
		enrollments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_enrollments_total",
			Help: "Enroll actions by result",
		}, []string{"success"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_enrollment_latency_seconds",
			Help:    "Time taken by a single enroll action",
			Buckets: prometheus.DefBuckets,
		}),
		sections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_catalog_sections",
			Help: "Sections decoded by the last catalog scan",
		}),
		defects: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_catalog_defects",
			Help: "Records rejected by the last catalog scan",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_sessions_active",
			Help: "Planning sessions currently held in memory",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_session_transitions_total",
			Help: "Session workflow transitions",
		}, []string{"from", "to"}),
	}

	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.bestScore, err = register(reg, s.bestScore); err != nil {
		return nil, err
	}
	if s.enrollments, err = register(reg, s.enrollments); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, s.latency); err != nil {
		return nil, err
	}
	if s.sections, err = register(reg, s.sections); err != nil {
		return nil, err
	}
	if s.defects, err = register(reg, s.defects); err != nil {
		return nil, err
	}
	if s.sessions, err = register(reg, s.sessions); err != nil {
		return nil, err
	}
	if s.transitions, err = register(reg, s.transitions); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordGeneration counts the run and observes the best score when present.
func (s *PromSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	s.runs.WithLabelValues(ev.Status).Inc()
	if ev.Ranked > 0 {
		s.bestScore.Observe(float64(ev.BestScore))
	}
	return nil
}

// RecordEnrollment counts the enroll action and its latency.
func (s *PromSink) RecordEnrollment(ev coremetrics.EnrollmentEvent) error {
	s.enrollments.WithLabelValues(strconv.FormatBool(ev.Success)).Inc()
	s.latency.Observe(ev.Latency.Seconds())
	return nil
}

// RecordCatalogScan sets the catalog gauges from a successful scan.
func (s *PromSink) RecordCatalogScan(ev coremetrics.CatalogScanEvent) error {
	if !ev.Success {
		return nil
	}
	s.sections.Set(float64(ev.Sections))
	s.defects.Set(float64(ev.Defects))
	return nil
}

// RecordSessionCount sets the active sessions gauge.
func (s *PromSink) RecordSessionCount(n int) error {
	s.sessions.Set(float64(n))
	return nil
}

// RecordTransition counts a session workflow transition.
func (s *PromSink) RecordTransition(ev coremetrics.TransitionEvent) error {
	s.transitions.WithLabelValues(ev.From, ev.To).Inc()
	return nil
}
