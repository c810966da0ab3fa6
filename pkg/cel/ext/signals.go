package ext

import (
	"math"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// maxFracBits bounds the fractional width accepted by fixed().
const maxFracBits = 62

// SignalFuncs returns CEL environment options for per-sample signal math.
//
// Functions:
//   - abs(int) -> int
//   - abs(double) -> double
//   - sqrt(int|double) -> double
//   - hypot(int, int) -> double: Magnitude of an (x, y) pair
//   - hypot(double, double) -> double
//   - fixed(int, int) -> double: Scale a fixed-point sample by 2^-fracBits
//   - clamp(int, int, int) -> int: Limit a value to [lo, hi]
func SignalFuncs() cel.EnvOption {
	return cel.Lib(&signalLib{})
}

type signalLib struct{}

func (l *signalLib) LibraryName() string {
	return "wavecut.signals"
}

func (l *signalLib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		cel.Function("abs",
			cel.Overload("abs_int", []*cel.Type{cel.IntType}, cel.IntType,
				cel.UnaryBinding(func(v ref.Val) ref.Val {
					i := v.(types.Int)
					if i == math.MinInt64 {
						return types.NewErr("abs: int64 overflow")
					}
					if i < 0 {
						return -i
					}
					return i
				}),
			),
			cel.Overload("abs_double", []*cel.Type{cel.DoubleType}, cel.DoubleType,
				cel.UnaryBinding(func(v ref.Val) ref.Val {
					return types.Double(math.Abs(float64(v.(types.Double))))
				}),
			),
		),
		cel.Function("sqrt",
			cel.Overload("sqrt_int", []*cel.Type{cel.IntType}, cel.DoubleType,
				cel.UnaryBinding(func(v ref.Val) ref.Val {
					return types.Double(math.Sqrt(float64(v.(types.Int))))
				}),
			),
			cel.Overload("sqrt_double", []*cel.Type{cel.DoubleType}, cel.DoubleType,
				cel.UnaryBinding(func(v ref.Val) ref.Val {
					return types.Double(math.Sqrt(float64(v.(types.Double))))
				}),
			),
		),
		cel.Function("hypot",
			cel.Overload("hypot_int_int", []*cel.Type{cel.IntType, cel.IntType}, cel.DoubleType,
				cel.BinaryBinding(func(x, y ref.Val) ref.Val {
					return types.Double(math.Hypot(float64(x.(types.Int)), float64(y.(types.Int))))
				}),
			),
			cel.Overload("hypot_double_double", []*cel.Type{cel.DoubleType, cel.DoubleType}, cel.DoubleType,
				cel.BinaryBinding(func(x, y ref.Val) ref.Val {
					return types.Double(math.Hypot(float64(x.(types.Double)), float64(y.(types.Double))))
				}),
			),
		),
		cel.Function("fixed",
			cel.Overload("fixed_int_int", []*cel.Type{cel.IntType, cel.IntType}, cel.DoubleType,
				cel.BinaryBinding(func(v, frac ref.Val) ref.Val {
					bits := int64(frac.(types.Int))
					if bits < 0 || bits > maxFracBits {
						return types.NewErr("fixed: fractional bits %d out of range [0, %d]", bits, maxFracBits)
					}
					return types.Double(math.Ldexp(float64(v.(types.Int)), -int(bits)))
				}),
			),
		),
		cel.Function("clamp",
			cel.Overload("clamp_int_int_int", []*cel.Type{cel.IntType, cel.IntType, cel.IntType}, cel.IntType,
				cel.FunctionBinding(func(args ...ref.Val) ref.Val {
					v, lo, hi := args[0].(types.Int), args[1].(types.Int), args[2].(types.Int)
					if lo > hi {
						return types.NewErr("clamp: lo %d greater than hi %d", lo, hi)
					}
					return types.Int(min(max(v, lo), hi))
				}),
			),
		),
	}
}

func (l *signalLib) ProgramOptions() []cel.ProgramOption {
	return nil
}
