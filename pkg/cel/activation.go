package cel

import (
	"github.com/google/cel-go/interpreter"
)

// RowActivation resolves variables to a single row of columnar data, so a
// compiled expression can be evaluated per row without building a map.
type RowActivation struct {
	ints    map[string][]int64
	doubles map[string][]float64
	row     int
}

func NewRowActivation(ints map[string][]int64, doubles map[string][]float64) *RowActivation {
	if ints == nil {
		ints = map[string][]int64{}
	}
	if doubles == nil {
		doubles = map[string][]float64{}
	}
	return &RowActivation{ints: ints, doubles: doubles}
}

// SetDouble binds or replaces a double column.
func (a *RowActivation) SetDouble(name string, col []float64) {
	a.doubles[name] = col
}

// At positions the activation on row i and returns it.
func (a *RowActivation) At(i int) *RowActivation {
	a.row = i
	return a
}

func (a *RowActivation) ResolveName(name string) (any, bool) {
	if col, ok := a.ints[name]; ok && a.row < len(col) {
		return col[a.row], true
	}
	if col, ok := a.doubles[name]; ok && a.row < len(col) {
		return col[a.row], true
	}
	return nil, false
}

func (a *RowActivation) Parent() interpreter.Activation {
	return nil
}

var _ interpreter.Activation = (*RowActivation)(nil)
