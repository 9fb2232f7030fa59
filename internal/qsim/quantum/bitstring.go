package quantum

import (
	"fmt"
	"strings"
)

// Bit represents a classical measurement outcome (0 or 1)
type Bit int

const (
	Zero Bit = 0
	One  Bit = 1
)

// FormatBitstring renders basis index v of an n-qubit register with
// qubit n-1 leftmost and qubit 0 rightmost.
func FormatBitstring(v, n int) string {
	bitstring := ""
	for k := 0; k < n; k++ {
		if (v>>k)&1 == 1 {
			bitstring = "1" + bitstring
		} else {
			bitstring = "0" + bitstring
		}
	}
	return bitstring
}

// ParseBitstring is the inverse of FormatBitstring
func ParseBitstring(bitstring string) (int, error) {
	n := len(bitstring)
	if n == 0 || n > MaxQubits {
		return 0, fmt.Errorf("%w: bitstring length %d not in [1, %d]", ErrInvalidCircuitParameters, n, MaxQubits)
	}

	v := 0
	for i, c := range bitstring {
		switch c {
		case '0':
		case '1':
			v |= 1 << (n - 1 - i)
		default:
			return 0, fmt.Errorf("%w: bitstring %q contains %q", ErrInvalidCircuitParameters, bitstring, c)
		}
	}
	return v, nil
}

// BitsOf splits a bitstring into its characters as Bits, leftmost first
func BitsOf(bitstring string) ([]Bit, error) {
	if strings.Trim(bitstring, "01") != "" {
		return nil, fmt.Errorf("%w: bitstring %q is not binary", ErrInvalidCircuitParameters, bitstring)
	}

	bits := make([]Bit, len(bitstring))
	for i := range bitstring {
		if bitstring[i] == '1' {
			bits[i] = One
		}
	}
	return bits, nil
}
