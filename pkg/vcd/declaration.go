package vcd

import (
	"fmt"
	"strings"
)

// Kind is the declared net or variable type of a signal.
type Kind uint8

const (
	KindWire Kind = iota + 1
	KindReg
	KindInteger
)

// ParseKind returns the kind for a `$var` type keyword.
// Only wire, reg and integer declarations are tracked.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "wire":
		return KindWire, true
	case "reg":
		return KindReg, true
	case "integer":
		return KindInteger, true
	}
	return 0, false
}

func (k Kind) String() string {
	switch k {
	case KindWire:
		return "wire"
	case KindReg:
		return "reg"
	case KindInteger:
		return "integer"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// SignalDeclaration is a resolved `$var` line.
type SignalDeclaration struct {
	// ID is the short identifier code used by value changes in the body.
	ID string
	// Name is the base name, without any bit-range suffix.
	Name  string
	Width int
	Kind  Kind
}

func (d SignalDeclaration) String() string {
	return fmt.Sprintf("%s %s[%d] (%s)", d.Kind, d.Name, d.Width, d.ID)
}

// baseName strips a bit-range suffix: "theta_x[17:0]" -> "theta_x".
func baseName(ref string) string {
	if i := strings.IndexByte(ref, '['); i >= 0 {
		return ref[:i]
	}
	return ref
}
