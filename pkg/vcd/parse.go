package vcd

import (
	"context"
	"fmt"
)

// Parse runs both passes over t: the header pass resolves wanted, then the
// body pass decodes into sink. The decoder options apply to the second pass.
func Parse(ctx context.Context, t *Trace, wanted []string, sink func(*SymbolTable) Sink, opts ...DecoderOption) (*SymbolTable, Stats, error) {
	hr, err := t.NewReader()
	if err != nil {
		return nil, Stats{}, err
	}
	table, err := ResolveHeader(hr, wanted)
	_ = hr.Close()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%s: %w", t.Path(), err)
	}

	br, err := t.NewReader()
	if err != nil {
		return table, Stats{}, err
	}
	defer br.Close()

	stats, err := NewDecoder(table, opts...).Decode(ctx, br, sink(table))
	if err != nil {
		return table, stats, fmt.Errorf("%s: %w", t.Path(), err)
	}
	return table, stats, nil
}
