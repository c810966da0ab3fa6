package vcd

import "fmt"

// LogicState is the four-state value carried by a scalar value change.
type LogicState uint8

const (
	Lo LogicState = iota
	Hi
	HiZ
	Undefined
)

// ParseLogicState maps a scalar value-change character to its state.
// x and z are accepted in either case.
func ParseLogicState(c byte) (LogicState, bool) {
	switch c {
	case '0':
		return Lo, true
	case '1':
		return Hi, true
	case 'z', 'Z':
		return HiZ, true
	case 'x', 'X':
		return Undefined, true
	}
	return Undefined, false
}

// Known reports whether the state carries a numeric value.
// HiZ and Undefined never overwrite a previously decoded value.
func (s LogicState) Known() bool {
	return s == Lo || s == Hi
}

// Value returns 0 or 1 for known states.
func (s LogicState) Value() int64 {
	if s == Hi {
		return 1
	}
	return 0
}

func (s LogicState) Rune() rune {
	switch s {
	case Lo:
		return '0'
	case Hi:
		return '1'
	case HiZ:
		return 'z'
	}
	return 'x'
}

func (s LogicState) String() string {
	switch s {
	case Lo:
		return "lo"
	case Hi:
		return "hi"
	case HiZ:
		return "hiz"
	case Undefined:
		return "undefined"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}
