package quantum

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// DefaultDriftTolerance is the largest accepted deviation of the total probability from 1
const DefaultDriftTolerance = 1e-6

// Sampler draws basis states from a StateVector according to the Born rule.
// Sampling never mutates or collapses the state; repeated draws are independent.
type Sampler struct {
	source    Source
	tolerance float64
}

// NewSampler creates a sampler backed by the shared random source
func NewSampler(source Source) *Sampler {
	return &Sampler{
		source:    source,
		tolerance: DefaultDriftTolerance,
	}
}

// SetDriftTolerance sets a custom normalization tolerance
func (s *Sampler) SetDriftTolerance(tolerance float64) {
	if tolerance > 0 {
		s.tolerance = tolerance
	}
}

// Distribution returns the normalized probability per basis index.
// Totals within the drift tolerance of 1 are renormalized; anything else,
// including NaN or infinite weights, is rejected with ErrNumericDrift.
func (s *Sampler) Distribution(state *StateVector) ([]float64, error) {
	probs := state.Probabilities()
	for i, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: weight %v at index %d", ErrNumericDrift, p, i)
		}
	}

	total := floats.Sum(probs)
	if math.Abs(total-1) > s.tolerance {
		return nil, fmt.Errorf("%w: total probability %.12f", ErrNumericDrift, total)
	}
	floats.Scale(1/total, probs)

	return probs, nil
}

// Sample draws one basis index
func (s *Sampler) Sample(state *StateVector) (int, error) {
	probs, err := s.Distribution(state)
	if err != nil {
		return 0, err
	}

	cumulative := floats.CumSum(make([]float64, len(probs)), probs)
	return s.draw(probs, cumulative), nil
}

// SampleBitstring draws one outcome rendered most-significant-qubit first
func (s *Sampler) SampleBitstring(state *StateVector) (string, error) {
	index, err := s.Sample(state)
	if err != nil {
		return "", err
	}
	return FormatBitstring(index, state.NumQubits()), nil
}

// SampleQubit draws the marginal outcome of qubit k alone
func (s *Sampler) SampleQubit(state *StateVector, k int) (Bit, error) {
	if err := state.checkQubit(k); err != nil {
		return Zero, err
	}

	probs, err := s.Distribution(state)
	if err != nil {
		return Zero, err
	}

	bit := 1 << k
	prob0 := 0.0
	for i, p := range probs {
		if i&bit == 0 {
			prob0 += p
		}
	}

	if s.source.Float64() < prob0 {
		return Zero, nil
	}
	return One, nil
}

// Histogram draws shots independent outcomes and counts them per bitstring
func (s *Sampler) Histogram(state *StateVector, shots int) (map[string]int, error) {
	if shots < 1 {
		return nil, fmt.Errorf("%w: shots must be positive, got %d", ErrInvalidCircuitParameters, shots)
	}

	probs, err := s.Distribution(state)
	if err != nil {
		return nil, err
	}

	cumulative := floats.CumSum(make([]float64, len(probs)), probs)
	counts := make(map[string]int)
	for i := 0; i < shots; i++ {
		index := s.draw(probs, cumulative)
		counts[FormatBitstring(index, state.NumQubits())]++
	}

	return counts, nil
}

// draw picks the first index whose cumulative weight exceeds a uniform value.
// Rounding can leave the final cumulative value just below 1, in which case
// the last index with non-zero weight is returned.
func (s *Sampler) draw(probs, cumulative []float64) int {
	r := s.source.Float64()
	index := sort.Search(len(cumulative), func(i int) bool {
		return cumulative[i] > r
	})
	if index < len(probs) {
		return index
	}

	for i := len(probs) - 1; i >= 0; i-- {
		if probs[i] > 0 {
			return i
		}
	}
	return 0
}
