package series

import (
	"slices"

	"github.com/unijord/wavecut/pkg/vcd"
)

// Extracted holds one sequence of decoded samples per tracked signal, one
// entry per retained tick at which the signal had a value, together with the
// time of each sample. It grows while decoding and is read-only afterwards.
type Extracted struct {
	names  []string
	values map[string][]int64
	times  map[string][]uint64
}

// Names returns the tracked signal names, sorted.
func (e *Extracted) Names() []string {
	return slices.Clone(e.names)
}

// Series returns the samples of name.
func (e *Extracted) Series(name string) ([]int64, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Len returns the number of samples of name.
func (e *Extracted) Len(name string) int {
	return len(e.values[name])
}

// Lengths returns the sample count of every tracked signal.
func (e *Extracted) Lengths() map[string]int {
	out := make(map[string]int, len(e.names))
	for _, name := range e.names {
		out[name] = len(e.values[name])
	}
	return out
}

// Times returns the simulation time of every sample of name. A signal that
// first gets a value late has fewer times than ticks were retained.
func (e *Extracted) Times(name string) []uint64 {
	return e.times[name]
}

// Sampler is the vcd.Sink that copies the signal state into an Extracted
// at every retained tick. Signals without a decoded value yet are skipped
// for that tick.
type Sampler struct {
	decls []vcd.SignalDeclaration
	out   *Extracted
}

// NewSampler creates a sampler for every signal resolved in table.
func NewSampler(table *vcd.SymbolTable) *Sampler {
	decls := table.Declarations()
	names := table.Names()
	values := make(map[string][]int64, len(names))
	for _, name := range names {
		values[name] = nil
	}
	return &Sampler{
		decls: decls,
		out:   &Extracted{names: names, values: values, times: make(map[string][]uint64, len(names))},
	}
}

// Snapshot implements vcd.Sink.
func (s *Sampler) Snapshot(tick vcd.Tick, state *vcd.SignalState) {
	for _, d := range s.decls {
		if v, ok := state.Get(d.ID); ok {
			s.out.values[d.Name] = append(s.out.values[d.Name], v)
			s.out.times[d.Name] = append(s.out.times[d.Name], tick.Time)
		}
	}
}

// Extracted returns the collected series.
func (s *Sampler) Extracted() *Extracted {
	return s.out
}

// FromSeries builds an Extracted from already decoded sequences. The
// samples carry no times.
func FromSeries(values map[string][]int64) *Extracted {
	e := &Extracted{values: make(map[string][]int64, len(values)), times: map[string][]uint64{}}
	for name, v := range values {
		e.names = append(e.names, name)
		e.values[name] = v
	}
	slices.Sort(e.names)
	return e
}
