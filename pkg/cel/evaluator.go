package cel

import (
	"fmt"
)

type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Eval runs expr against vars, which may be a map[string]any or an
// interpreter.Activation such as *RowActivation.
func (e *Evaluator) Eval(expr *CompiledExpr, vars any) EvalResult {
	out, _, err := expr.program.Eval(vars)
	if err != nil {
		return NewEvalError(fmt.Errorf("eval: %w", err))
	}
	return NewEvalResult(out.Value())
}

// EvalDouble widens int results to float64.
func (e *Evaluator) EvalDouble(expr *CompiledExpr, vars any) (float64, error) {
	result := e.Eval(expr, vars)
	return result.Numeric()
}
