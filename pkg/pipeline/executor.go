package pipeline

import (
	"context"
	"math"

	wcel "github.com/unijord/wavecut/pkg/cel"
	"github.com/unijord/wavecut/pkg/segment"
	"github.com/unijord/wavecut/pkg/series"
)

// ctxCheckRows is how many rows are evaluated between two context checks.
const ctxCheckRows = 4096

// Executor executes a compiled pipeline on aligned series and segments.
type Executor struct {
	pipeline *CompiledPipeline
	eval     *wcel.Evaluator
}

// NewExecutor creates an executor for a compiled pipeline.
func NewExecutor(pipeline *CompiledPipeline) *Executor {
	return &Executor{pipeline: pipeline, eval: wcel.NewEvaluator()}
}

// Derive evaluates every derived column row by row and attaches the results
// to a. Evaluation stops at the first failing row.
func (e *Executor) Derive(ctx context.Context, a *series.Aligned) error {
	if len(e.pipeline.Derived) == 0 {
		return nil
	}

	ints := make(map[string][]int64, len(e.pipeline.Signals))
	for _, name := range e.pipeline.Signals {
		if v, ok := a.Series(name); ok {
			ints[name] = v
		}
	}
	activation := wcel.NewRowActivation(ints, nil)

	for _, col := range e.pipeline.Derived {
		values := make([]float64, a.Len())
		for i := range values {
			if i%ctxCheckRows == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			v, err := e.eval.EvalDouble(col.Expr, activation.At(i))
			if err != nil {
				return &ColumnError{
					Name:       col.Name,
					Index:      col.Index,
					Row:        i,
					Expression: col.Source,
					Err:        err,
				}
			}
			values[i] = v
		}
		if err := a.AddDerived(col.Name, values); err != nil {
			return err
		}
		activation.SetDouble(col.Name, values)
	}
	return nil
}

// Summarize evaluates every summary against seg. An empty segment yields NaN
// for each summary.
func (e *Executor) Summarize(seg *segment.Segment) (map[string]float64, error) {
	out := make(map[string]float64, len(e.pipeline.Summaries))
	if len(e.pipeline.Summaries) == 0 {
		return out, nil
	}
	if seg.Len() == 0 {
		for _, col := range e.pipeline.Summaries {
			out[col.Name] = math.NaN()
		}
		return out, nil
	}

	vars := make(map[string]any, len(seg.Series)+len(seg.Derived)+2)
	for name, v := range seg.Series {
		vars[name] = v
	}
	for name, v := range seg.Derived {
		vars[name] = v
	}
	vars[RowsVar] = int64(seg.Len())
	vars[LabelVar] = seg.Name()

	for _, col := range e.pipeline.Summaries {
		v, err := e.eval.EvalDouble(col.Expr, vars)
		if err != nil {
			return nil, &SummaryError{
				Name:       col.Name,
				Index:      col.Index,
				Segment:    seg.Name(),
				Expression: col.Source,
				Err:        err,
			}
		}
		out[col.Name] = v
	}
	return out, nil
}

// Pipeline returns the compiled pipeline.
func (e *Executor) Pipeline() *CompiledPipeline {
	return e.pipeline
}
