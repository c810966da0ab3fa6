package vcd

// SignalState holds the last decoded value of every tracked identifier.
// It is owned by a single Decode call: the decoder is the only writer and
// the Sink reads it during Snapshot.
type SignalState struct {
	values map[string]int64
}

// NewSignalState returns an empty table sized for n identifiers.
func NewSignalState(n int) *SignalState {
	return &SignalState{values: make(map[string]int64, n)}
}

// Set stores the latest value for id.
func (s *SignalState) Set(id string, v int64) {
	s.values[id] = v
}

// Get returns the latest value for id and whether one was ever decoded.
func (s *SignalState) Get(id string) (int64, bool) {
	v, ok := s.values[id]
	return v, ok
}

// Len returns the number of identifiers with a known value.
func (s *SignalState) Len() int {
	return len(s.values)
}
