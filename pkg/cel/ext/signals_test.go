package ext

import (
	"math"
	"testing"

	"github.com/google/cel-go/cel"
)

func TestSignalFuncs(t *testing.T) {
	env, err := cel.NewEnv(
		SignalFuncs(),
		cel.Variable("x", cel.IntType),
		cel.Variable("y", cel.IntType),
		cel.Variable("d", cel.DoubleType),
	)
	if err != nil {
		t.Fatalf("NewEnv: %v", err)
	}

	tests := []struct {
		name     string
		expr     string
		vars     map[string]any
		expected any
	}{
		{
			name:     "abs_negative_int",
			expr:     "abs(x)",
			vars:     map[string]any{"x": int64(-6)},
			expected: int64(6),
		},
		{
			name:     "abs_double",
			expr:     "abs(d)",
			vars:     map[string]any{"d": -2.5},
			expected: 2.5,
		},
		{
			name:     "sqrt_int",
			expr:     "sqrt(x)",
			vars:     map[string]any{"x": int64(16)},
			expected: 4.0,
		},
		{
			name:     "hypot_ints",
			expr:     "hypot(x, y)",
			vars:     map[string]any{"x": int64(3), "y": int64(-4)},
			expected: 5.0,
		},
		{
			name:     "hypot_doubles",
			expr:     "hypot(d, d)",
			vars:     map[string]any{"d": 0.0},
			expected: 0.0,
		},
		{
			name:     "fixed_q8",
			expr:     "fixed(x, 8)",
			vars:     map[string]any{"x": int64(384)},
			expected: 1.5,
		},
		{
			name:     "fixed_negative",
			expr:     "fixed(x, 4)",
			vars:     map[string]any{"x": int64(-8)},
			expected: -0.5,
		},
		{
			name:     "fixed_zero_bits",
			expr:     "fixed(x, 0)",
			vars:     map[string]any{"x": int64(7)},
			expected: 7.0,
		},
		{
			name:     "clamp_high",
			expr:     "clamp(x, 0, 4)",
			vars:     map[string]any{"x": int64(9)},
			expected: int64(4),
		},
		{
			name:     "clamp_low",
			expr:     "clamp(x, -2, 4)",
			vars:     map[string]any{"x": int64(-9)},
			expected: int64(-2),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ast, issues := env.Compile(tc.expr)
			if issues != nil && issues.Err() != nil {
				t.Fatalf("Compile(%q): %v", tc.expr, issues.Err())
			}
			prog, err := env.Program(ast)
			if err != nil {
				t.Fatalf("Program: %v", err)
			}
			out, _, err := prog.Eval(tc.vars)
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}
			if out.Value() != tc.expected {
				t.Errorf("got %v (%T), want %v (%T)", out.Value(), out.Value(), tc.expected, tc.expected)
			}
		})
	}
}

func TestSignalFuncs_Errors(t *testing.T) {
	env, err := cel.NewEnv(
		SignalFuncs(),
		cel.Variable("x", cel.IntType),
	)
	if err != nil {
		t.Fatalf("NewEnv: %v", err)
	}

	tests := []struct {
		name string
		expr string
		x    int64
	}{
		{name: "abs_min_int", expr: "abs(x)", x: math.MinInt64},
		{name: "fixed_negative_bits", expr: "fixed(x, -1)", x: 1},
		{name: "fixed_too_many_bits", expr: "fixed(x, 63)", x: 1},
		{name: "clamp_inverted", expr: "clamp(x, 5, 1)", x: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ast, issues := env.Compile(tc.expr)
			if issues != nil && issues.Err() != nil {
				t.Fatalf("Compile(%q): %v", tc.expr, issues.Err())
			}
			prog, err := env.Program(ast)
			if err != nil {
				t.Fatalf("Program: %v", err)
			}
			if _, _, err := prog.Eval(map[string]any{"x": tc.x}); err == nil {
				t.Errorf("%s: expected error", tc.expr)
			}
		})
	}
}
