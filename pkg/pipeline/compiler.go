package pipeline

import (
	"fmt"

	"github.com/google/cel-go/cel"

	wcel "github.com/unijord/wavecut/pkg/cel"
	"github.com/unijord/wavecut/pkg/cel/ext"
)

// Summary variables bound next to the signal lists.
const (
	// RowsVar holds the number of rows in the segment.
	RowsVar = "_rows"
	// LabelVar holds the segment's label name.
	LabelVar = "_label"
)

// Compiler compiles pipeline configurations against the extracted signals.
type Compiler struct {
	envOptions []cel.EnvOption
}

// NewCompiler creates a new pipeline compiler.
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompilerOption configures the compiler.
type CompilerOption func(*Compiler)

// WithEnvOptions adds additional CEL environment options.
func WithEnvOptions(opts ...cel.EnvOption) CompilerOption {
	return func(c *Compiler) {
		c.envOptions = append(c.envOptions, opts...)
	}
}

// Compile compiles the derived columns and summaries of config. signals are
// the names of the aligned series; names that are not CEL identifiers are
// not bound and cannot be referenced.
func (c *Compiler) Compile(config *Config, signals []string) (*CompiledPipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}

	bound := make([]string, 0, len(signals))
	for _, name := range signals {
		if wcel.ValidIdentifier(name) {
			bound = append(bound, name)
		}
	}

	compileErrors := &CompileErrors{}

	// derived columns see the row's signals and every earlier derived column
	derived := make([]CompiledColumn, 0, len(config.Derived))
	var prior []string
	for i, col := range config.Derived {
		location := fmt.Sprintf("derived[%d]", i)
		env, err := c.newEnv(wcel.NewEnvBuilder().
			WithSignals(bound...).
			WithDerived(prior...))
		if err != nil {
			return nil, fmt.Errorf("failed to build CEL environment: %w", err)
		}
		expr, err := wcel.NewCompiler(env).CompileNumeric(col.Expr)
		if err != nil {
			compileErrors.Add(CompileError{Location: location, Source: col.Expr, Err: err})
		} else {
			derived = append(derived, CompiledColumn{Name: col.Name, Index: i, Source: col.Expr, Expr: expr})
		}
		prior = append(prior, col.Name)
	}

	// summaries see whole segment columns, without the partition key
	lists := make([]string, 0, len(bound))
	for _, name := range bound {
		if name != config.Key() {
			lists = append(lists, name)
		}
	}
	summaries := make([]CompiledColumn, 0, len(config.Summaries))
	if len(config.Summaries) > 0 {
		env, err := c.newEnv(wcel.NewEnvBuilder().
			WithSignalLists(lists...).
			WithDerivedLists(prior...).
			WithVariable(RowsVar, cel.IntType).
			WithVariable(LabelVar, cel.StringType))
		if err != nil {
			return nil, fmt.Errorf("failed to build CEL environment: %w", err)
		}
		compiler := wcel.NewCompiler(env)
		for i, col := range config.Summaries {
			expr, err := compiler.CompileNumeric(col.Expr)
			if err != nil {
				compileErrors.Add(CompileError{Location: fmt.Sprintf("summaries[%d]", i), Source: col.Expr, Err: err})
				continue
			}
			summaries = append(summaries, CompiledColumn{Name: col.Name, Index: i, Source: col.Expr, Expr: expr})
		}
	}

	if compileErrors.HasErrors() {
		return nil, compileErrors
	}

	return &CompiledPipeline{
		Config:    config,
		Signals:   bound,
		Derived:   derived,
		Summaries: summaries,
	}, nil
}

func (c *Compiler) newEnv(b *wcel.EnvBuilder) (*cel.Env, error) {
	return b.WithOption(ext.AllFuncs()...).
		WithOption(c.envOptions...).
		Build()
}
