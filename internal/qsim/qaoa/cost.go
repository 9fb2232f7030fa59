package qaoa

import (
	"fmt"

	"github.com/jaskrrish/go-qsim/internal/qsim/quantum"
)

// MaxCutCost scores a bitstring for the fixed two-node edge: 1 when the first
// two characters differ (the edge is cut), else 0.
func MaxCutCost(bitstring string) (int, error) {
	bits, err := quantum.BitsOf(bitstring)
	if err != nil {
		return 0, err
	}
	if len(bits) < 2 {
		return 0, fmt.Errorf("%w: max-cut needs at least 2 bits, got %q", quantum.ErrInvalidCircuitParameters, bitstring)
	}

	if bits[0] != bits[1] {
		return 1, nil
	}
	return 0, nil
}

// ExpectedCost is the exact cut probability of a prepared state, computed
// from the amplitudes rather than from samples.
func ExpectedCost(state *quantum.StateVector) (float64, error) {
	n := state.NumQubits()
	if n < 2 {
		return 0, fmt.Errorf("%w: max-cut needs at least 2 qubits, got %d", quantum.ErrInvalidCircuitParameters, n)
	}

	expected := 0.0
	for index, p := range state.Probabilities() {
		cost, err := MaxCutCost(quantum.FormatBitstring(index, n))
		if err != nil {
			return 0, err
		}
		expected += p * float64(cost)
	}
	return expected, nil
}
