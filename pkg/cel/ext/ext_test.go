package ext

import (
	"testing"

	"github.com/google/cel-go/cel"
)

func TestAllFuncs(t *testing.T) {
	opts := append(AllFuncs(),
		cel.Variable("re", cel.IntType),
		cel.Variable("im", cel.IntType),
		cel.Variable("mags", cel.ListType(cel.DoubleType)),
	)

	env, err := cel.NewEnv(opts...)
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
			name:     "magnitude_fixed_point",
			expr:     "hypot(fixed(re, 2), fixed(im, 2))",
			vars:     map[string]any{"re": int64(12), "im": int64(-16), "mags": []float64{}},
			expected: 5.0,
		},
		{
			name:     "peak_of_list",
			expr:     "maxDouble(mags) - minDouble(mags)",
			vars:     map[string]any{"re": int64(0), "im": int64(0), "mags": []float64{1.0, 4.0, 2.5}},
			expected: 3.0,
		},
		{
			name:     "clamped_sum",
			expr:     "clamp(sum([re, im]), -1, 1)",
			vars:     map[string]any{"re": int64(-6), "im": int64(2), "mags": []float64{}},
			expected: int64(-1),
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
