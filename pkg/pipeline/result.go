package pipeline

import (
	"fmt"
	"maps"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/unijord/wavecut/pkg/segment"
	"github.com/unijord/wavecut/pkg/series"
	"github.com/unijord/wavecut/pkg/vcd"
)

// Result is the outcome of one extraction run.
type Result struct {
	// RunID identifies the run in logs and output paths.
	RunID string

	// Trace is the path that was read.
	Trace string

	// Digest is the xxhash of the trace header.
	Digest string

	// Declared are the resolved declarations of the requested signals.
	Declared []vcd.SignalDeclaration

	// Missing are requested signals the header does not declare.
	Missing []string

	// Stats are the decoder counters.
	Stats vcd.Stats

	// Lengths are the per-signal sample counts before reconciliation.
	Lengths map[string]int

	// Aligned holds the reconciled series and derived columns.
	Aligned *series.Aligned

	// Segments holds the per-state partition of Aligned.
	Segments segment.Result

	// Summaries maps segment name to summary name to value.
	Summaries map[string]map[string]float64
}

// Record exports the aligned series as an Arrow record. The caller must Release it.
func (r *Result) Record(mem memory.Allocator) arrow.Record {
	return r.Aligned.Record(mem)
}

// SegmentSummary returns the summaries of the named segment.
func (r *Result) SegmentSummary(name string) map[string]float64 {
	return maps.Clone(r.Summaries[name])
}

// ColumnError represents a derived column evaluation failure.
type ColumnError struct {
	// Name is the column name.
	Name string

	// Index is the column index (0-indexed).
	Index int

	// Row is the aligned row that failed.
	Row int

	// Expression is the CEL expression that failed.
	Expression string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ColumnError) Error() string {
	return fmt.Sprintf("derived[%d] %q failed at row %d: %v (expr: %s)", e.Index, e.Name, e.Row, e.Err, e.Expression)
}

// Unwrap returns the underlying error.
func (e *ColumnError) Unwrap() error {
	return e.Err
}

// SummaryError represents a summary evaluation failure.
type SummaryError struct {
	Name       string
	Index      int
	Segment    string
	Expression string
	Err        error
}

func (e *SummaryError) Error() string {
	return fmt.Sprintf("summaries[%d] %q failed for segment %s: %v (expr: %s)", e.Index, e.Name, e.Segment, e.Err, e.Expression)
}

func (e *SummaryError) Unwrap() error {
	return e.Err
}

// CompileError represents a compilation error with location.
type CompileError struct {
	// Location indicates where the error occurred.
	// Examples: "derived[0]", "summaries[2]"
	Location string

	// Source is the original expression text.
	Source string

	// Err is the underlying CEL error.
	Err error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %v (expr: %s)", e.Location, e.Err, e.Source)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// CompileErrors collects multiple compilation errors.
type CompileErrors struct {
	Errors []CompileError
}

func (e *CompileErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d compilation errors: first: %v", len(e.Errors), e.Errors[0].Error())
}

// Add adds a compile error to the collection.
func (e *CompileErrors) Add(err CompileError) {
	e.Errors = append(e.Errors, err)
}

// HasErrors returns true if there are any errors.
func (e *CompileErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *CompileErrors) Unwrap() error {
	if len(e.Errors) == 1 {
		return e.Errors[0].Err
	}
	return nil
}
