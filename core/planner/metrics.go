package planner

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	generationsTotal     *prometheus.CounterVec
	generationDuration   prometheus.Histogram
	combinationsExamined prometheus.Counter
	truncationsTotal     prometheus.Counter
)

func newCollectors() (*prometheus.CounterVec, prometheus.Histogram, prometheus.Counter, prometheus.Counter) {
	gen := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_generations_total",
			Help: "Number of generation runs by outcome",
		},
		[]string{"status"},
	)
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planner_generation_duration_seconds",
			Help:    "Time spent enumerating, filtering and ranking schedules",
			Buckets: prometheus.DefBuckets,
		},
	)
	comb := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "planner_combinations_examined_total",
			Help: "Number of section combinations checked for conflicts",
		},
	)
	trunc := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "planner_truncations_total",
			Help: "Number of runs whose candidate groups were truncated to respect the cap",
		},
	)
	return gen, dur, comb, trunc
}

func init() {
	generationsTotal, generationDuration, combinationsExamined, truncationsTotal = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers planner metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(generationsTotal, generationDuration, combinationsExamined, truncationsTotal)
}

// ResetMetrics reinitializes the collectors for tests and registers them on
// reg when it is not nil.
func ResetMetrics(reg prometheus.Registerer) {
	generationsTotal, generationDuration, combinationsExamined, truncationsTotal = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
