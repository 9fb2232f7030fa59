package qaoa

import (
	"testing"

	"github.com/jaskrrish/go-qsim/internal/qsim/quantum"
	"github.com/stretchr/testify/assert"
)

// TestMaxCutCost tests the single-edge cut score
func TestMaxCutCost(t *testing.T) {
	tests := []struct {
		bitstring string
		expected  int
	}{
		{"01", 1},
		{"10", 1},
		{"00", 0},
		{"11", 0},
		// only the first two characters form the edge
		{"011", 1},
		{"001", 0},
		{"1100", 0},
	}

	for _, tt := range tests {
		t.Run(tt.bitstring, func(t *testing.T) {
			cost, err := MaxCutCost(tt.bitstring)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, cost)
		})
	}
}

func TestMaxCutCostRejectsInvalid(t *testing.T) {
	for _, input := range []string{"", "0", "1", "0a", "2"} {
		_, err := MaxCutCost(input)
		assert.ErrorIs(t, err, quantum.ErrInvalidCircuitParameters, "input %q", input)
	}
}

func TestExpectedCostRejectsSingleQubit(t *testing.T) {
	state, err := quantum.NewStateVector(1)
	assert.NoError(t, err)

	_, err = ExpectedCost(state)
	assert.ErrorIs(t, err, quantum.ErrInvalidCircuitParameters)
}
