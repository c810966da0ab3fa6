package vcd

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwosComplement(t *testing.T) {
	tests := []struct {
		v     uint64
		width int
		want  int64
	}{
		{0b1010, 4, -6},
		{0b0111, 4, 7},
		{0b1000, 4, -8},
		{0b1111, 4, -1},
		{1, 1, -1},
		{0, 1, 0},
		{1 << 17, 18, -(1 << 17)},
		{1<<17 - 1, 18, 1<<17 - 1},
		// bits above the width are dropped.
		{0b11010, 4, -6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TwosComplement(tt.v, tt.width), "v=%b width=%d", tt.v, tt.width)
	}
}

func TestParseBinary_MostNegative18Bit(t *testing.T) {
	v, err := ParseBinary("100000000000000000", 18, Signed)
	require.NoError(t, err)
	assert.Equal(t, int64(-131072), v)
}

func TestParseBinary_Encodings(t *testing.T) {
	v, err := ParseBinary("1010", 4, Unsigned)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)

	v, err = ParseBinary("1010", 4, Signed)
	require.NoError(t, err)
	assert.Equal(t, int64(-6), v)

	// shorter literals are zero extended.
	v, err = ParseBinary("1", 4, Signed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestParseBinary_Malformed(t *testing.T) {
	_, err := ParseBinary("10x1", 4, Signed)
	assert.ErrorIs(t, err, ErrMalformedLiteral)

	_, err = ParseBinary("", 4, Signed)
	assert.ErrorIs(t, err, ErrMalformedLiteral)

	_, err = ParseBinary("zzzz", 4, Unsigned)
	assert.ErrorIs(t, err, ErrMalformedLiteral)

	_, err = ParseBinary(strings.Repeat("1", 65), 65, Unsigned)
	assert.ErrorIs(t, err, ErrLiteralTooWide)
}

func TestParseBinary_Ranges(t *testing.T) {
	for width := 1; width <= 10; width++ {
		for raw := uint64(0); raw < 1<<uint(width); raw++ {
			lit := strconv.FormatUint(raw, 2)

			u, err := ParseBinary(lit, width, Unsigned)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, u, int64(0))
			assert.Less(t, u, int64(1)<<uint(width))

			s, err := ParseBinary(lit, width, Signed)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, s, -(int64(1) << uint(width-1)))
			assert.LessOrEqual(t, s, int64(1)<<uint(width-1)-1)
		}
	}
}

func TestEncodingTable(t *testing.T) {
	table := NewEncodingTable(DefaultUnsigned...)
	assert.Equal(t, Unsigned, table.For("state_select"))
	assert.Equal(t, Signed, table.For("theta_x"))

	enc, err := ParseEncoding(" Unsigned ")
	require.NoError(t, err)
	assert.Equal(t, Unsigned, enc)

	_, err = ParseEncoding("float")
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestParseBinary_SixtyFourBits(t *testing.T) {
	top := "1" + strings.Repeat("0", 63)

	v, err := ParseBinary(top, 64, Signed)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), v)

	_, err = ParseBinary(top, 64, Unsigned)
	assert.ErrorIs(t, err, ErrLiteralTooWide)

	_, err = ParseBinary(top, 72, Signed)
	assert.ErrorIs(t, err, ErrLiteralTooWide, "widths above 64 decode unsigned")

	v, err = ParseBinary(strings.Repeat("1", 63), 64, Unsigned)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), v)
}
