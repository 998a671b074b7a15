package planner

import (
	"errors"
	"iter"
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/kilianp07/smartreg/core/model"
)

// ErrSearchSpaceTooLarge is returned when the truncated product of group sizes
// cannot be represented.
var ErrSearchSpaceTooLarge = errors.New("search space too large")

// Product multiplies the group sizes, saturating at math.MaxInt.
func Product(groups [][]model.Section) int {
	p := 1
	for _, g := range groups {
		n := len(g)
		if n == 0 {
			return 0
		}
		if p > math.MaxInt/n {
			return math.MaxInt
		}
		p *= n
	}
	return p
}

// Truncation describes how groups were cut before enumeration.
type Truncation struct {
	Naive   int // product before truncation
	Product int // product after truncation
	Ceiling int // per-course ceiling applied, 0 when untouched
}

// Truncate limits every group to its first k sections when the naive product
// exceeds limit. k starts at ceiling and decreases while it is above floor,
// stopping at the first k whose product is within limit. The last attempt is
// kept even when it is still over the limit.
func Truncate(groups [][]model.Section, limit, ceiling, floor int) ([][]model.Section, Truncation) {
	naive := Product(groups)
	tr := Truncation{Naive: naive, Product: naive}
	if naive <= limit {
		return groups, tr
	}
	limited := groups
	for k := ceiling; k > floor; k-- {
		limited = make([][]model.Section, len(groups))
		for i, g := range groups {
			limited[i] = g[:min(len(g), k)]
		}
		tr.Ceiling = k
		tr.Product = Product(limited)
		if tr.Product <= limit {
			break
		}
	}
	return limited, tr
}

// Combinations yields schedules holding one section per group in depth-first
// order, the last group varying fastest. It stops after limit schedules or
// when the consumer stops. No groups yields a single empty schedule. Every
// group must be non-empty.
func Combinations(groups [][]model.Section, limit int) (iter.Seq[model.Schedule], error) {
	if len(groups) == 0 {
		return func(yield func(model.Schedule) bool) {
			if limit > 0 {
				yield(model.Schedule{})
			}
		}, nil
	}
	lens := make([]int, len(groups))
	for i, g := range groups {
		if len(g) == 0 {
			return nil, errors.New("empty candidate group")
		}
		lens[i] = len(g)
	}
	if Product(groups) == math.MaxInt {
		return nil, ErrSearchSpaceTooLarge
	}

	return func(yield func(model.Schedule) bool) {
		gen := combin.NewCartesianGenerator(lens)
		idx := make([]int, len(lens))
		for n := 0; n < limit && gen.Next(); n++ {
			gen.Product(idx)
			sections := make([]model.Section, len(groups))
			for i, j := range idx {
				sections[i] = groups[i][j]
			}
			if !yield(model.Schedule{Sections: sections}) {
				return
			}
		}
	}, nil
}
