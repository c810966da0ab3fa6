// Package ext provides custom CEL function extensions for derived signals
// and segment summaries.
//
// # Signal Functions (SignalFuncs)
//
// Per-sample math over decoded signal values:
//   - abs(int|double)
//   - sqrt(int|double) -> double
//   - hypot(x, y) -> double
//   - fixed(int, fracBits) -> double
//   - clamp(int, lo, hi) -> int
//
// # List Functions (ListFuncs)
//
// Reductions over a segment's sample lists:
//   - sum(list<int>) -> int
//   - sumDouble(list<double>) -> double
//   - min(list<int>) -> int
//   - minDouble(list<double>) -> double
//   - max(list<int>) -> int
//   - maxDouble(list<double>) -> double
//   - avg(list<int>) -> double
//   - avgDouble(list<double>) -> double
//   - std(list<int>) -> double
//   - stdDouble(list<double>) -> double
//   - first(list<dyn>) -> dyn
//   - last(list<dyn>) -> dyn
package ext

import "github.com/google/cel-go/cel"

// AllFuncs returns all custom CEL function libraries as a slice of EnvOptions.
func AllFuncs() []cel.EnvOption {
	return []cel.EnvOption{
		SignalFuncs(),
		ListFuncs(),
	}
}
