package segment

import (
	"slices"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/unijord/wavecut/pkg/series"
)

// Segment holds the aligned rows whose partition key equals one label.
type Segment struct {
	Label Label
	// Rows are the indices into the aligned series, ascending.
	Rows []int
	// Series and Derived hold the selected rows of every column except the partition key.
	Series  map[string][]int64
	Derived map[string][]float64
	Times   []uint64
	// Fallback is set on the single segment produced when the partition key is missing.
	Fallback bool

	names  []string
	dnames []string
}

// Name returns the label name.
func (s *Segment) Name() string {
	return s.Label.Name
}

// Len returns the number of rows.
func (s *Segment) Len() int {
	return len(s.Rows)
}

// Names returns the signal names in the segment, sorted.
func (s *Segment) Names() []string {
	return slices.Clone(s.names)
}

// Record exports the segment as an Arrow record. The caller must Release it.
func (s *Segment) Record(mem memory.Allocator) arrow.Record {
	return series.NewRecord(mem, series.Columns{
		Times:        s.Times,
		Signals:      s.Series,
		Derived:      s.Derived,
		SignalOrder:  s.names,
		DerivedOrder: s.dnames,
	})
}

// Result is the outcome of Split.
type Result struct {
	// Segments in label enumeration order.
	Segments []Segment
	// Unlabeled counts rows whose key value is not in the enumeration.
	Unlabeled int
	// Fallback is true when the partition key was not tracked.
	Fallback bool
}

// Get returns the segment with the given label name.
func (r *Result) Get(name string) (*Segment, bool) {
	for i := range r.Segments {
		if r.Segments[i].Label.Name == name {
			return &r.Segments[i], true
		}
	}
	return nil, false
}

// Split partitions the rows of a by the value of the key signal. Membership
// is by value equality per row, so a label that recurs at disjoint times
// contributes all of its rows to one segment. Only labels that occur at least
// once produce a segment. When key is not an aligned signal, a single
// fallback segment with every row is returned under labels.Default().
func Split(a *series.Aligned, key string, labels Labels) Result {
	keyValues, ok := a.Series(key)
	if !ok {
		rows := make([]int, a.Len())
		for i := range rows {
			rows[i] = i
		}
		seg := newSegment(a, key, labels.Default(), rows)
		seg.Fallback = true
		return Result{Segments: []Segment{seg}, Fallback: true}
	}

	index := make(map[int64]int, len(labels))
	for i, lb := range labels {
		index[lb.Value] = i
	}
	rowsByLabel := make([][]int, len(labels))
	unlabeled := 0
	for row, v := range keyValues {
		i, ok := index[v]
		if !ok {
			unlabeled++
			continue
		}
		rowsByLabel[i] = append(rowsByLabel[i], row)
	}

	res := Result{Unlabeled: unlabeled}
	for i, rows := range rowsByLabel {
		if len(rows) == 0 {
			continue
		}
		res.Segments = append(res.Segments, newSegment(a, key, labels[i], rows))
	}
	return res
}

func newSegment(a *series.Aligned, key string, label Label, rows []int) Segment {
	seg := Segment{
		Label:   label,
		Rows:    rows,
		Series:  make(map[string][]int64),
		Derived: make(map[string][]float64),
	}
	for _, name := range a.Names() {
		if name == key {
			continue
		}
		v, _ := a.Series(name)
		seg.Series[name] = pick(v, rows)
		seg.names = append(seg.names, name)
	}
	for _, name := range a.DerivedNames() {
		v, _ := a.Derived(name)
		seg.Derived[name] = pick(v, rows)
		seg.dnames = append(seg.dnames, name)
	}
	if times := a.Times(); times != nil {
		seg.Times = pick(times, rows)
	}
	return seg
}

func pick[T any](src []T, rows []int) []T {
	out := make([]T, len(rows))
	for i, row := range rows {
		out[i] = src[row]
	}
	return out
}
