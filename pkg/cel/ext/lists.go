package ext

import (
	"math"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
)

// ListFuncs returns CEL environment options for reductions over sample lists.
//
// Functions:
//   - sum(list<int>) -> int: Sum of integers
//   - sumDouble(list<double>) -> double: Sum of doubles
//   - min(list<int>) -> int: Minimum integer (error if empty)
//   - minDouble(list<double>) -> double: Minimum double (error if empty)
//   - max(list<int>) -> int: Maximum integer (error if empty)
//   - maxDouble(list<double>) -> double: Maximum double (error if empty)
//   - avg(list<int>) -> double: Mean of integers (NaN if empty)
//   - avgDouble(list<double>) -> double: Mean of doubles (NaN if empty)
//   - std(list<int>) -> double: Population standard deviation (NaN if empty)
//   - stdDouble(list<double>) -> double: Population standard deviation (NaN if empty)
//   - first(list<dyn>) -> dyn: First element (null if empty)
//   - last(list<dyn>) -> dyn: Last element (null if empty)
func ListFuncs() cel.EnvOption {
	return cel.Lib(&listLib{})
}

type listLib struct{}

func (l *listLib) LibraryName() string {
	return "wavecut.lists"
}

func (l *listLib) CompileOptions() []cel.EnvOption {
	intList := []*cel.Type{cel.ListType(cel.IntType)}
	doubleList := []*cel.Type{cel.ListType(cel.DoubleType)}

	return []cel.EnvOption{
		cel.Function("sum",
			cel.Overload("sum_list_int", intList, cel.IntType,
				cel.UnaryBinding(func(list ref.Val) ref.Val {
					var sum int64
					for _, v := range ints(list) {
						sum += v
					}
					return types.Int(sum)
				}),
			),
		),
		cel.Function("sumDouble",
			cel.Overload("sum_list_double", doubleList, cel.DoubleType,
				cel.UnaryBinding(func(list ref.Val) ref.Val {
					var sum float64
					for _, v := range doubles(list) {
						sum += v
					}
					return types.Double(sum)
				}),
			),
		),
		cel.Function("min",
			cel.Overload("min_list_int", intList, cel.IntType,
				cel.UnaryBinding(func(list ref.Val) ref.Val {
					vals := ints(list)
					if len(vals) == 0 {
						return types.NewErr("min: empty list")
					}
					m := vals[0]
					for _, v := range vals[1:] {
						m = min(m, v)
					}
					return types.Int(m)
				}),
			),
		),
		cel.Function("minDouble",
			cel.Overload("min_list_double", doubleList, cel.DoubleType,
				cel.UnaryBinding(func(list ref.Val) ref.Val {
					vals := doubles(list)
					if len(vals) == 0 {
						return types.NewErr("minDouble: empty list")
					}
					m := vals[0]
					for _, v := range vals[1:] {
						m = math.Min(m, v)
					}
					return types.Double(m)
				}),
			),
		),
		cel.Function("max",
			cel.Overload("max_list_int", intList, cel.IntType,
				cel.UnaryBinding(func(list ref.Val) ref.Val {
					vals := ints(list)
					if len(vals) == 0 {
						return types.NewErr("max: empty list")
					}
					m := vals[0]
					for _, v := range vals[1:] {
						m = max(m, v)
					}
					return types.Int(m)
				}),
			),
		),
		cel.Function("maxDouble",
			cel.Overload("max_list_double", doubleList, cel.DoubleType,
				cel.UnaryBinding(func(list ref.Val) ref.Val {
					vals := doubles(list)
					if len(vals) == 0 {
						return types.NewErr("maxDouble: empty list")
					}
					m := vals[0]
					for _, v := range vals[1:] {
						m = math.Max(m, v)
					}
					return types.Double(m)
				}),
			),
		),
		cel.Function("avg",
			cel.Overload("avg_list_int", intList, cel.DoubleType,
				cel.UnaryBinding(func(list ref.Val) ref.Val {
					return types.Double(mean(toFloat(ints(list))))
				}),
			),
		),
		cel.Function("avgDouble",
			cel.Overload("avg_list_double", doubleList, cel.DoubleType,
				cel.UnaryBinding(func(list ref.Val) ref.Val {
					return types.Double(mean(doubles(list)))
				}),
			),
		),
		cel.Function("std",
			cel.Overload("std_list_int", intList, cel.DoubleType,
				cel.UnaryBinding(func(list ref.Val) ref.Val {
					return types.Double(stddev(toFloat(ints(list))))
				}),
			),
		),
		cel.Function("stdDouble",
			cel.Overload("std_list_double", doubleList, cel.DoubleType,
				cel.UnaryBinding(func(list ref.Val) ref.Val {
					return types.Double(stddev(doubles(list)))
				}),
			),
		),
		cel.Function("first",
			cel.Overload("first_list", []*cel.Type{cel.ListType(cel.DynType)}, cel.DynType,
				cel.UnaryBinding(func(list ref.Val) ref.Val {
					lister := list.(traits.Lister)
					if lister.Size().(types.Int) == 0 {
						return types.NullValue
					}
					return lister.Get(types.Int(0))
				}),
			),
		),
		cel.Function("last",
			cel.Overload("last_list", []*cel.Type{cel.ListType(cel.DynType)}, cel.DynType,
				cel.UnaryBinding(func(list ref.Val) ref.Val {
					lister := list.(traits.Lister)
					size := lister.Size().(types.Int)
					if size == 0 {
						return types.NullValue
					}
					return lister.Get(size - 1)
				}),
			),
		),
	}
}

func (l *listLib) ProgramOptions() []cel.ProgramOption {
	return nil
}

// ints returns the elements of an int list, without copying native slices.
func ints(list ref.Val) []int64 {
	if native, ok := list.Value().([]int64); ok {
		return native
	}
	lister := list.(traits.Lister)
	size := int(lister.Size().(types.Int))
	out := make([]int64, size)
	for i := 0; i < size; i++ {
		out[i] = int64(lister.Get(types.Int(i)).(types.Int))
	}
	return out
}

// doubles returns the elements of a double list, without copying native slices.
func doubles(list ref.Val) []float64 {
	if native, ok := list.Value().([]float64); ok {
		return native
	}
	lister := list.(traits.Lister)
	size := int(lister.Size().(types.Int))
	out := make([]float64, size)
	for i := 0; i < size; i++ {
		out[i] = float64(lister.Get(types.Int(i)).(types.Double))
	}
	return out
}

func toFloat(vals []int64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v)
	}
	return out
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func stddev(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := mean(vals)
	var ss float64
	for _, v := range vals {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)))
}
