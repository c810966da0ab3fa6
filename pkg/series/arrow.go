package series

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// TimeColumn is the name of the tick time column in exported records.
const TimeColumn = "_time"

// Column types of exported records:
//
//	| Column           | Arrow Type |
//	|------------------|------------|
//	| _time            | Uint64     |
//	| <signal>         | Int64      |
//	| <derived column> | Float64    |
//
// Signals come first in name order, derived columns follow in insertion order.

// BuildSchema returns the Arrow schema for the given columns.
func BuildSchema(withTime bool, signals, derived []string) *arrow.Schema {
	fields := make([]arrow.Field, 0, len(signals)+len(derived)+1)
	if withTime {
		fields = append(fields, arrow.Field{Name: TimeColumn, Type: arrow.PrimitiveTypes.Uint64})
	}
	for _, name := range signals {
		fields = append(fields, arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64})
	}
	for _, name := range derived {
		fields = append(fields, arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64})
	}
	return arrow.NewSchema(fields, nil)
}

// Columns is a column set ready for export.
type Columns struct {
	Times   []uint64
	Signals map[string][]int64
	Derived map[string][]float64
	// order of the columns in the record.
	SignalOrder  []string
	DerivedOrder []string
}

// NewRecord copies cols into an Arrow record. The caller must Release it.
func NewRecord(mem memory.Allocator, cols Columns) arrow.Record {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	withTime := cols.Times != nil
	schema := BuildSchema(withTime, cols.SignalOrder, cols.DerivedOrder)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	i := 0
	if withTime {
		b.Field(i).(*array.Uint64Builder).AppendValues(cols.Times, nil)
		i++
	}
	for _, name := range cols.SignalOrder {
		b.Field(i).(*array.Int64Builder).AppendValues(cols.Signals[name], nil)
		i++
	}
	for _, name := range cols.DerivedOrder {
		b.Field(i).(*array.Float64Builder).AppendValues(cols.Derived[name], nil)
		i++
	}
	return b.NewRecord()
}

// Columns returns the aligned data as a column set.
func (a *Aligned) Columns() Columns {
	return Columns{
		Times:        a.times,
		Signals:      a.series,
		Derived:      a.derived,
		SignalOrder:  a.names,
		DerivedOrder: a.dnames,
	}
}

// Record exports the aligned series as an Arrow record.
func (a *Aligned) Record(mem memory.Allocator) arrow.Record {
	return NewRecord(mem, a.Columns())
}
