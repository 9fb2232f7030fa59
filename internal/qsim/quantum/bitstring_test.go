package quantum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFormatBitstring tests most-significant-qubit-first rendering
func TestFormatBitstring(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		n        int
		expected string
	}{
		{"Zero on one qubit", 0, 1, "0"},
		{"One on one qubit", 1, 1, "1"},
		{"Qubit 0 set of two", 1, 2, "01"},
		{"Qubit 1 set of two", 2, 2, "10"},
		{"Both set", 3, 2, "11"},
		{"Qubit 0 set of three", 1, 3, "001"},
		{"Qubit 2 set of three", 4, 3, "100"},
		{"Pattern 0b1101 on five", 13, 5, "01101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bitstring := FormatBitstring(tt.index, tt.n)
			assert.Equal(t, tt.expected, bitstring)

			// leftmost character is bit n-1, rightmost is bit 0
			assert.Equal(t, byte('0'+(tt.index>>(tt.n-1))&1), bitstring[0])
			assert.Equal(t, byte('0'+tt.index&1), bitstring[tt.n-1])

			parsed, err := ParseBitstring(bitstring)
			require.NoError(t, err)
			assert.Equal(t, tt.index, parsed)
		})
	}
}

func TestParseBitstringRejectsInvalid(t *testing.T) {
	for _, input := range []string{"", "012", "1a", "  "} {
		_, err := ParseBitstring(input)
		assert.ErrorIs(t, err, ErrInvalidCircuitParameters, "input %q", input)
	}
}

func TestBitsOf(t *testing.T) {
	bits, err := BitsOf("1001")
	require.NoError(t, err)
	assert.Equal(t, []Bit{One, Zero, Zero, One}, bits)

	_, err = BitsOf("10x")
	assert.ErrorIs(t, err, ErrInvalidCircuitParameters)
}
