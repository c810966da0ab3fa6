package vcd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
)

const (
	// DefaultDecimation keeps every 10th timestamp marker.
	DefaultDecimation = 10
	// DefaultSampleBudget bounds the number of retained ticks.
	DefaultSampleBudget = 100_000

	ctxCheckInterval = 1 << 14
)

// Tick identifies a retained timestamp marker.
type Tick struct {
	// Time is the simulation time of the marker.
	Time uint64
	// Marker is the 1-based count of timestamp markers seen so far.
	Marker int
}

// Sink receives the signal state at every retained tick.
type Sink interface {
	Snapshot(tick Tick, state *SignalState)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(tick Tick, state *SignalState)

func (f SinkFunc) Snapshot(tick Tick, state *SignalState) { f(tick, state) }

// Stats describes one Decode pass.
type Stats struct {
	Lines     int
	Markers   int
	Snapshots int
	// Events counts value changes applied to the state table.
	Events int
	// Malformed counts unparseable literals and markers, which are skipped.
	Malformed int
	// Unknown counts x/z scalar changes of tracked signals.
	Unknown int
	// Ignored counts value changes of untracked identifiers and unsupported records.
	Ignored int
	// Suspicious counts values outside a signal's expected range.
	Suspicious int
	LastTime   uint64
	BudgetHit  bool
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithDecimation sets how many timestamp markers separate two snapshots.
// Values below 1 are ignored.
func WithDecimation(n int) DecoderOption {
	return func(d *Decoder) {
		if n > 0 {
			d.decimation = n
		}
	}
}

// WithSampleBudget caps the number of snapshots. Decoding stops once
// budget*decimation timestamp markers were read. 0 disables the cap.
func WithSampleBudget(n int) DecoderOption {
	return func(d *Decoder) {
		if n >= 0 {
			d.budget = n
		}
	}
}

// WithEncodings sets the signed/unsigned table for vector values.
func WithEncodings(t EncodingTable) DecoderOption {
	return func(d *Decoder) {
		if t != nil {
			d.encodings = t
		}
	}
}

// WithExpectedMax declares the largest plausible value of an unsigned signal.
// Larger values are kept but reported as suspicious.
func WithExpectedMax(name string, limit int64) DecoderOption {
	return func(d *Decoder) {
		d.expectedMax[name] = limit
	}
}

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(l *slog.Logger) DecoderOption {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// Decoder replays the body of a trace into a SignalState and hands the state
// to a Sink at every retained timestamp marker.
type Decoder struct {
	table       *SymbolTable
	decimation  int
	budget      int
	encodings   EncodingTable
	expectedMax map[string]int64
	logger      *slog.Logger
}

// NewDecoder creates a decoder for the signals resolved in table.
func NewDecoder(table *SymbolTable, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		table:       table,
		decimation:  DefaultDecimation,
		budget:      DefaultSampleBudget,
		encodings:   NewEncodingTable(DefaultUnsigned...),
		expectedMax: make(map[string]int64),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decimation returns the effective decimation factor.
func (d *Decoder) Decimation() int {
	return d.decimation
}

// Decode scans r from the start of the trace. Lines up to and including
// $enddefinitions are skipped. All value changes between two timestamp
// markers are applied before the next marker may trigger a snapshot.
// Decoding stops at end of input, when the sample budget is reached, or when
// ctx is done.
func (d *Decoder) Decode(ctx context.Context, r io.Reader, sink Sink) (Stats, error) {
	var st Stats
	state := NewSignalState(d.table.Len())
	warned := make(map[string]bool)

	maxMarkers := 0
	if d.budget > 0 {
		maxMarkers = d.budget * d.decimation
	}

	inBody := false
	sc := newLineScanner(r)
	for sc.Scan() {
		st.Lines++
		if st.Lines%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return st, err
			}
		}

		line := bytes.TrimSpace(sc.Bytes())
		if !inBody {
			inBody = bytes.Contains(line, endDefinitions)
			continue
		}
		if len(line) == 0 {
			continue
		}

		switch c := line[0]; c {
		case '#':
			t, err := strconv.ParseUint(string(line[1:]), 10, 64)
			if err != nil {
				st.Malformed++
				continue
			}
			st.LastTime = t
			st.Markers++
			if st.Markers%d.decimation == 0 {
				sink.Snapshot(Tick{Time: t, Marker: st.Markers}, state)
				st.Snapshots++
			}
			if maxMarkers > 0 && st.Markers >= maxMarkers {
				st.BudgetHit = true
				d.logger.Info("[vcd]", "message", "sample budget reached",
					"markers", st.Markers, "snapshots", st.Snapshots, "time", t)
				return st, nil
			}

		case 'b', 'B':
			d.decodeVector(line, state, &st, warned)

		case '0', '1', 'x', 'X', 'z', 'Z':
			d.decodeScalar(c, line[1:], state, &st)

		case '$':
			// $dumpvars, $end, $comment: the value lines inside are decoded as usual.

		default:
			// real, string and strength records are not tracked.
			st.Ignored++
		}
	}
	if err := sc.Err(); err != nil {
		return st, fmt.Errorf("read trace body: %w", err)
	}
	return st, nil
}

func (d *Decoder) decodeVector(line []byte, state *SignalState, st *Stats, warned map[string]bool) {
	fields := bytes.Fields(line)
	if len(fields) != 2 {
		st.Malformed++
		return
	}
	decl, ok := d.table.lookupBytes(fields[1])
	if !ok {
		st.Ignored++
		return
	}

	enc := d.encodings.For(decl.Name)
	v, err := ParseBinary(string(fields[0][1:]), decl.Width, enc)
	if err != nil {
		st.Malformed++
		return
	}

	if limit, ok := d.expectedMax[decl.Name]; ok && enc == Unsigned && v > limit {
		st.Suspicious++
		if !warned[decl.Name] {
			warned[decl.Name] = true
			d.logger.Warn("[vcd]", "message", "value outside expected range, check the encoding table",
				"signal", decl.Name, "value", v, "expected_max", limit)
		}
	}

	state.Set(decl.ID, v)
	st.Events++
}

func (d *Decoder) decodeScalar(c byte, id []byte, state *SignalState, st *Stats) {
	if len(id) == 0 {
		st.Malformed++
		return
	}
	decl, ok := d.table.lookupBytes(id)
	if !ok {
		st.Ignored++
		return
	}
	ls, _ := ParseLogicState(c)
	if !ls.Known() {
		st.Unknown++
		return
	}
	state.Set(decl.ID, ls.Value())
	st.Events++
}
