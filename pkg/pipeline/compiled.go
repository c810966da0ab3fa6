package pipeline

import (
	wcel "github.com/unijord/wavecut/pkg/cel"
)

// CompiledPipeline holds pre-compiled CEL programs ready for execution.
type CompiledPipeline struct {
	Config *Config

	// Signals are the row variables the derived columns were compiled against.
	Signals []string

	// Derived columns in evaluation order.
	Derived []CompiledColumn

	// Summaries are evaluated once per segment.
	Summaries []CompiledColumn
}

// CompiledColumn holds a compiled derived column or summary expression.
type CompiledColumn struct {
	// Name is the output column name.
	Name string

	// Index is the position in the config list (for error reporting).
	Index int

	Source string
	Expr   *wcel.CompiledExpr
}

// DerivedNames returns the derived column names in evaluation order.
func (p *CompiledPipeline) DerivedNames() []string {
	names := make([]string, len(p.Derived))
	for i, col := range p.Derived {
		names[i] = col.Name
	}
	return names
}

// SummaryNames returns the summary names in config order.
func (p *CompiledPipeline) SummaryNames() []string {
	names := make([]string, len(p.Summaries))
	for i, col := range p.Summaries {
		names[i] = col.Name
	}
	return names
}
