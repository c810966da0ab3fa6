package vcd

import (
	"strings"
)

const testHeader = `$date today $end
$version wavecut test $end
$timescale 1ns $end
$scope module tb $end
$var reg 4 ! a [3:0] $end
$var reg 4 " b [3:0] $end
$var wire 1 # clk $end
$var reg 3 % state_select [2:0] $end
$upscope $end
$enddefinitions $end
`

// trace joins the test header with body lines.
func trace(body ...string) string {
	return testHeader + strings.Join(body, "\n") + "\n"
}

type recorded struct {
	ticks  []Tick
	values map[string][]int64
}

// recorder collects the value of each id at every snapshot, skipping ids
// that have no value yet.
func recorder(ids ...string) (*recorded, Sink) {
	rec := &recorded{values: make(map[string][]int64)}
	return rec, SinkFunc(func(tick Tick, state *SignalState) {
		rec.ticks = append(rec.ticks, tick)
		for _, id := range ids {
			if v, ok := state.Get(id); ok {
				rec.values[id] = append(rec.values[id], v)
			}
		}
	})
}
