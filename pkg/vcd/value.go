package vcd

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMalformedLiteral is returned for vector literals that are not pure binary.
	ErrMalformedLiteral = errors.New("malformed binary literal")
	// ErrLiteralTooWide is returned when a literal does not fit in 64 bits,
	// or when an unsigned value does not fit in 63.
	ErrLiteralTooWide = errors.New("binary literal wider than 64 bits")
	// ErrInvalidEncoding is returned by ParseEncoding for unknown tags.
	ErrInvalidEncoding = errors.New("invalid encoding: must be 'signed' or 'unsigned'")
)

// Encoding selects how a vector literal is interpreted.
type Encoding string

const (
	// Signed reinterprets the bit pattern as two's complement of the declared width.
	Signed Encoding = "signed"
	// Unsigned keeps the raw bit pattern. Used for categorical and index signals.
	Unsigned Encoding = "unsigned"
)

// ParseEncoding normalizes an encoding tag.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(strings.ToLower(strings.TrimSpace(s))) {
	case Signed:
		return Signed, nil
	case Unsigned:
		return Unsigned, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEncoding, s)
}

// EncodingTable maps signal names to their encoding. Signals not listed are Signed.
type EncodingTable map[string]Encoding

// DefaultUnsigned lists the categorical signals of the reference testbenches.
var DefaultUnsigned = []string{
	"state_select",
	"phase_pattern",
	"oscillator_derived_pattern",
	"ca3_learning",
	"ca3_recalling",
	"ca3_debug",
}

// NewEncodingTable marks the given names Unsigned.
func NewEncodingTable(unsigned ...string) EncodingTable {
	t := make(EncodingTable, len(unsigned))
	for _, name := range unsigned {
		t[name] = Unsigned
	}
	return t
}

// For returns the encoding for name.
func (t EncodingTable) For(name string) Encoding {
	if enc, ok := t[name]; ok {
		return enc
	}
	return Signed
}

// TwosComplement reinterprets the low width bits of v as a signed integer.
func TwosComplement(v uint64, width int) int64 {
	if width <= 0 || width >= 64 {
		return int64(v)
	}
	v &= 1<<uint(width) - 1
	if v >= 1<<uint(width-1) {
		return int64(v) - int64(1)<<uint(width)
	}
	return int64(v)
}

// ParseBinary decodes the digits of a `b` value change for a signal of the given width.
// The result is masked to width bits before the encoding is applied.
// Unsigned values, and every value of signals wider than 64 bits, must fit
// in 63 bits so that they stay non-negative.
func ParseBinary(literal string, width int, enc Encoding) (int64, error) {
	if literal == "" {
		return 0, ErrMalformedLiteral
	}
	v, err := strconv.ParseUint(literal, 2, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %d digits", ErrLiteralTooWide, len(literal))
		}
		return 0, fmt.Errorf("%w: %q", ErrMalformedLiteral, literal)
	}
	if width > 0 && width < 64 {
		v &= 1<<uint(width) - 1
	}
	if enc == Unsigned || width > 64 {
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%w: unsigned value needs 64 bits", ErrLiteralTooWide)
		}
		return int64(v), nil
	}
	return TwosComplement(v, width), nil
}
