// Package selftest produces wiring check patterns for first power-on:
// a lit row that is wrong or missing points straight at the row-select
// register, a column at the column register.
package selftest

import (
	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
)

type Kind string

const (
	None    Kind = ""
	RowWalk Kind = "row_walk"
	ColWalk Kind = "col_walk"
	AllOn   Kind = "all_on"
)

type Plan struct{ Kind Kind }

type Runner struct {
	plan Plan
	step int
}

func NewRunner(plan Plan) *Runner { return &Runner{plan: plan} }

func (r *Runner) Kind() Kind { return r.plan.Kind }

// Step fills f with the next test image; returns false when complete.
func (r *Runner) Step(f *matrix.Frame) bool {
	*f = matrix.Frame{}

	switch r.plan.Kind {
	case RowWalk:
		if r.step >= matrix.Rows {
			return false
		}
		f[r.step] = 0xFF
	case ColWalk:
		if r.step >= matrix.Cols {
			return false
		}
		for i := range f {
			f[i] = 1 << (matrix.Cols - 1 - r.step)
		}
	case AllOn:
		if r.step >= 1 {
			return false
		}
		for i := range f {
			f[i] = 0xFF
		}
	default:
		return false
	}
	r.step++
	return true
}
