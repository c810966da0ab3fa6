package cel

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// ExprType is the checked result type of an expression, reduced to the
// kinds that signal expressions produce. Everything else is ExprTypeOther.
type ExprType int

const (
	ExprTypeUnknown ExprType = iota
	ExprTypeBool
	ExprTypeInt
	ExprTypeUint
	ExprTypeDouble
	ExprTypeString
	ExprTypeList
	ExprTypeDyn
	ExprTypeOther
)

var exprTypeNames = [...]string{
	ExprTypeUnknown: "unknown",
	ExprTypeBool:    "bool",
	ExprTypeInt:     "int",
	ExprTypeUint:    "uint",
	ExprTypeDouble:  "double",
	ExprTypeString:  "string",
	ExprTypeList:    "list",
	ExprTypeDyn:     "dyn",
	ExprTypeOther:   "other",
}

func (t ExprType) String() string {
	if t < 0 || int(t) >= len(exprTypeNames) {
		return "unknown"
	}
	return exprTypeNames[t]
}

// Numeric reports whether values of t can be widened to float64.
func (t ExprType) Numeric() bool {
	return t == ExprTypeInt || t == ExprTypeUint || t == ExprTypeDouble
}

type CompiledExpr struct {
	source     string
	program    cel.Program
	outputType ExprType
}

func (c *CompiledExpr) Source() string       { return c.source }
func (c *CompiledExpr) OutputType() ExprType { return c.outputType }

type EvalResult struct {
	value any
	err   error
}

func NewEvalResult(value any) EvalResult {
	return EvalResult{value: value}
}

func NewEvalError(err error) EvalResult {
	return EvalResult{err: err}
}

func (r EvalResult) Value() any { return r.value }
func (r EvalResult) Err() error { return r.err }
func (r EvalResult) Ok() bool   { return r.err == nil }

// Numeric returns int and double results as float64.
func (r EvalResult) Numeric() (float64, error) {
	if r.err != nil {
		return 0, r.err
	}
	switch v := r.value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("expected number, got %T", r.value)
}

func exprTypeFromCEL(t *cel.Type) ExprType {
	if t == nil {
		return ExprTypeUnknown
	}
	switch t.Kind() {
	case cel.BoolKind:
		return ExprTypeBool
	case cel.IntKind:
		return ExprTypeInt
	case cel.UintKind:
		return ExprTypeUint
	case cel.DoubleKind:
		return ExprTypeDouble
	case cel.StringKind:
		return ExprTypeString
	case cel.ListKind:
		return ExprTypeList
	case cel.DynKind, cel.AnyKind, cel.TypeParamKind:
		return ExprTypeDyn
	default:
		return ExprTypeOther
	}
}
