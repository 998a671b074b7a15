package planner

import (
	"fmt"
	"time"

	"github.com/kilianp07/smartreg/core/logger"
	"github.com/kilianp07/smartreg/core/model"
	"github.com/kilianp07/smartreg/core/monitoring"
)

// Result is the outcome of one generation run.
type Result struct {
	Status     Status               `json:"status"`
	Ranked     []model.RankedResult `json:"ranked_results"`
	Examined   int                  `json:"examined"`
	Valid      int                  `json:"valid"`
	Truncation Truncation           `json:"truncation"`
	Duration   time.Duration        `json:"duration"`
	Err        error                `json:"-"`
}

// Engine runs truncate -> enumerate -> detect -> score -> rank. It holds no
// per-request state and may be shared.
type Engine struct {
	cfg      Config
	log      logger.Logger
	conflict func(model.Schedule) bool
}

// NewEngine validates cfg after applying defaults.
func NewEngine(cfg Config, log logger.Logger) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	return &Engine{cfg: cfg, log: logger.OrNop(log), conflict: HasConflict}, nil
}

// Config returns the effective limits.
func (e *Engine) Config() Config { return e.cfg }

// Generate ranks the conflict-free schedules built from groups. Panics are
// recovered and reported as StatusFailed.
func (e *Engine) Generate(groups []CourseGroup, f model.Filters) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err := monitoring.CapturePanic(r, map[string]string{"module": "planner"})
			e.log.Errorf("generation failed: %v", err)
			res = Result{Status: StatusFailed, Err: err}
		}
		res.Duration = time.Since(start)
		generationsTotal.WithLabelValues(string(res.Status)).Inc()
		generationDuration.Observe(res.Duration.Seconds())
	}()

	if len(groups) == 0 {
		return Result{Status: StatusNoCandidates}
	}
	lists := make([][]model.Section, len(groups))
	for i, g := range groups {
		lists[i] = g.Sections
	}
	return e.run(lists, f)
}

func (e *Engine) run(lists [][]model.Section, f model.Filters) Result {
	limited, tr := Truncate(lists, e.cfg.MaxCombinations, e.cfg.MaxSectionsPerCourse, e.cfg.MinSectionsPerCourse)
	if tr.Ceiling > 0 {
		truncationsTotal.Inc()
		e.log.Infof("limiting options: %d combinations truncated to %d (max %d sections per course)",
			tr.Naive, tr.Product, tr.Ceiling)
	}
	e.log.Debugw("enumerating", map[string]any{"courses": len(lists), "combinations": tr.Product})

	seq, err := Combinations(limited, e.cfg.MaxCombinations)
	if err != nil {
		return Result{Status: StatusFailed, Truncation: tr, Err: err}
	}

	var valid []model.RankedResult
	examined := 0
	for sched := range seq {
		examined++
		if e.conflict(sched) {
			continue
		}
		valid = append(valid, Score(sched, f))
		if len(valid) >= e.cfg.MaxValid {
			break
		}
	}
	combinationsExamined.Add(float64(examined))

	res := Result{Examined: examined, Valid: len(valid), Truncation: tr}
	switch {
	case examined == 0:
		res.Status = StatusNoCombinations
	case len(valid) == 0:
		res.Status = StatusNoConflictFree
	default:
		res.Status = StatusOK
		res.Ranked = Rank(valid, e.cfg.TopN)
	}
	e.log.Infof("generation %s: %d examined, %d valid, %d ranked", res.Status, examined, len(valid), len(res.Ranked))
	return res
}
