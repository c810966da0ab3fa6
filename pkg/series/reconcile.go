package series

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrLengthMismatch is returned when a column does not have the aligned length.
	ErrLengthMismatch = errors.New("column length does not match aligned length")
	// ErrDuplicateColumn is returned when a derived column reuses an existing name.
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// Aligned is a set of series that all have the same length L.
// Derived holds floating point columns computed from the aligned signals.
type Aligned struct {
	length  int
	names   []string
	series  map[string][]int64
	derived map[string][]float64
	dnames  []string
	times   []uint64
	// timeRef is the signal whose sample times label the rows.
	timeRef string
}

// Len returns the common length L.
func (a *Aligned) Len() int {
	return a.length
}

// Names returns the signal names, sorted.
func (a *Aligned) Names() []string {
	return slices.Clone(a.names)
}

// Has reports whether name is an aligned signal.
func (a *Aligned) Has(name string) bool {
	_, ok := a.series[name]
	return ok
}

// Series returns the aligned samples of name.
func (a *Aligned) Series(name string) ([]int64, bool) {
	v, ok := a.series[name]
	return v, ok
}

// Times returns the simulation time of every aligned row, or nil when the
// samples carry no times. The times are those of TimeSource, the shortest
// series, which is never resampled.
func (a *Aligned) Times() []uint64 {
	return a.times
}

// TimeSource returns the signal whose sample times label the rows.
func (a *Aligned) TimeSource() string {
	return a.timeRef
}

// DerivedNames returns the derived column names in insertion order.
func (a *Aligned) DerivedNames() []string {
	return slices.Clone(a.dnames)
}

// Derived returns the derived column name.
func (a *Aligned) Derived(name string) ([]float64, bool) {
	v, ok := a.derived[name]
	return v, ok
}

// AddDerived attaches a floating point column of length L.
func (a *Aligned) AddDerived(name string, values []float64) error {
	if len(values) != a.length {
		return fmt.Errorf("%w: %q has %d rows, want %d", ErrLengthMismatch, name, len(values), a.length)
	}
	if a.Has(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if _, ok := a.derived[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if a.derived == nil {
		a.derived = make(map[string][]float64)
	}
	a.derived[name] = values
	a.dnames = append(a.dnames, name)
	return nil
}

// Row returns the signal values of row i.
func (a *Aligned) Row(i int) map[string]int64 {
	row := make(map[string]int64, len(a.names))
	for _, name := range a.names {
		row[name] = a.series[name][i]
	}
	return row
}

// Reconcile aligns every non-empty series of e to the shortest length L.
// Longer series are downsampled by picking L evenly spaced source indices;
// no value is synthesized. Signals that were never sampled are absent from
// the result, and an Extracted without samples yields an empty Aligned.
// Row times come from the first shortest series in name order.
func Reconcile(e *Extracted) *Aligned {
	a := &Aligned{series: make(map[string][]int64)}

	length := -1
	ref := ""
	for _, name := range e.names {
		n := len(e.values[name])
		if n == 0 {
			continue
		}
		if length < 0 || n < length {
			length = n
			ref = name
		}
	}
	if length < 0 {
		return a
	}

	a.length = length
	for _, name := range e.names {
		v := e.values[name]
		if len(v) == 0 {
			continue
		}
		a.names = append(a.names, name)
		a.series[name] = Resample(v, length)
	}
	if times := e.times[ref]; len(times) == length {
		a.times = times
		a.timeRef = ref
	}
	return a
}

// Resample returns n elements of src at indices floor(i*(len(src)-1)/(n-1)).
// src is returned unchanged when it already has n elements or fewer.
func Resample[T any](src []T, n int) []T {
	if len(src) <= n {
		return src
	}
	out := make([]T, n)
	if n == 1 {
		out[0] = src[0]
		return out
	}
	last := len(src) - 1
	for i := range out {
		out[i] = src[i*last/(n-1)]
	}
	return out
}

// NewAligned builds an Aligned from sequences that already share one length.
func NewAligned(values map[string][]int64) (*Aligned, error) {
	a := &Aligned{series: make(map[string][]int64, len(values)), length: -1}
	for name, v := range values {
		if a.length >= 0 && len(v) != a.length {
			return nil, fmt.Errorf("%w: %q has %d rows, want %d", ErrLengthMismatch, name, len(v), a.length)
		}
		a.length = len(v)
		a.names = append(a.names, name)
		a.series[name] = v
	}
	if a.length < 0 {
		a.length = 0
	}
	slices.Sort(a.names)
	return a, nil
}
