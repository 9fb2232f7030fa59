package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// MaxQubits bounds the register size; 2^24 amplitudes is 256 MiB of complex128.
const MaxQubits = 24

// StateVector holds the 2^n complex amplitudes of an n-qubit register.
// Bit k of a basis index is the value of qubit k.
type StateVector struct {
	numQubits  int
	amplitudes []complex128
}

// NewStateVector creates a register of numQubits qubits in the |00...0⟩ state
func NewStateVector(numQubits int) (*StateVector, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, fmt.Errorf("%w: qubit count %d not in [1, %d]", ErrInvalidCircuitParameters, numQubits, MaxQubits)
	}

	amplitudes := make([]complex128, 1<<numQubits)
	amplitudes[0] = 1

	return &StateVector{
		numQubits:  numQubits,
		amplitudes: amplitudes,
	}, nil
}

// NumQubits returns the register size
func (s *StateVector) NumQubits() int {
	return s.numQubits
}

// Len returns the number of basis states (2^n)
func (s *StateVector) Len() int {
	return len(s.amplitudes)
}

// Reset returns the register to |00...0⟩
func (s *StateVector) Reset() {
	for i := range s.amplitudes {
		s.amplitudes[i] = 0
	}
	s.amplitudes[0] = 1
}

// Clone returns an independent copy of the register
func (s *StateVector) Clone() *StateVector {
	amplitudes := make([]complex128, len(s.amplitudes))
	copy(amplitudes, s.amplitudes)
	return &StateVector{numQubits: s.numQubits, amplitudes: amplitudes}
}

// Amplitude returns the amplitude of basis state index
func (s *StateVector) Amplitude(index int) (complex128, error) {
	if err := s.checkBasisIndex(index); err != nil {
		return 0, err
	}
	return s.amplitudes[index], nil
}

// SetAmplitude overwrites the amplitude of basis state index.
// It does not renormalize; callers preparing a state are responsible for the norm.
func (s *StateVector) SetAmplitude(index int, amplitude complex128) error {
	if err := s.checkBasisIndex(index); err != nil {
		return err
	}
	s.amplitudes[index] = amplitude
	return nil
}

// Amplitudes returns a copy of the amplitude vector
func (s *StateVector) Amplitudes() []complex128 {
	out := make([]complex128, len(s.amplitudes))
	copy(out, s.amplitudes)
	return out
}

// Norm returns the sum of squared amplitude magnitudes
func (s *StateVector) Norm() float64 {
	total := 0.0
	for _, a := range s.amplitudes {
		total += real(a)*real(a) + imag(a)*imag(a)
	}
	return total
}

// Probabilities returns |a_i|^2 for every basis state
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.amplitudes))
	for i, a := range s.amplitudes {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs
}

// Hadamard applies H to qubit k: (a, b) -> ((a+b)/√2, (a-b)/√2)
func (s *StateVector) Hadamard(k int) error {
	if err := s.checkQubit(k); err != nil {
		return err
	}

	bit := 1 << k
	h := complex(1/math.Sqrt2, 0)
	for i := range s.amplitudes {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a, b := s.amplitudes[i], s.amplitudes[j]
		s.amplitudes[i] = (a + b) * h
		s.amplitudes[j] = (a - b) * h
	}

	return nil
}

// PauliX swaps the amplitudes of every pair of indices differing only in bit k
func (s *StateVector) PauliX(k int) error {
	if err := s.checkQubit(k); err != nil {
		return err
	}

	bit := 1 << k
	for i := range s.amplitudes {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		s.amplitudes[i], s.amplitudes[j] = s.amplitudes[j], s.amplitudes[i]
	}

	return nil
}

// PauliZ negates every amplitude whose bit k is set
func (s *StateVector) PauliZ(k int) error {
	if err := s.checkQubit(k); err != nil {
		return err
	}

	bit := 1 << k
	for i := range s.amplitudes {
		if i&bit != 0 {
			s.amplitudes[i] = -s.amplitudes[i]
		}
	}

	return nil
}

// Rz rotates qubit k about Z: bit k set gets e^(-iθ/2), bit k clear gets e^(+iθ/2)
func (s *StateVector) Rz(k int, theta float64) error {
	if err := s.checkQubit(k); err != nil {
		return err
	}

	bit := 1 << k
	one := cmplx.Rect(1, -theta/2)
	zero := cmplx.Rect(1, theta/2)
	for i := range s.amplitudes {
		if i&bit != 0 {
			s.amplitudes[i] *= one
		} else {
			s.amplitudes[i] *= zero
		}
	}

	return nil
}

// CZ negates every amplitude whose bits k1 and k2 are both set
func (s *StateVector) CZ(k1, k2 int) error {
	if err := s.checkQubit(k1); err != nil {
		return err
	}
	if err := s.checkQubit(k2); err != nil {
		return err
	}
	if k1 == k2 {
		return fmt.Errorf("%w: controlled-Z needs two distinct qubits, got %d twice", ErrInvalidQubitIndex, k1)
	}

	mask := 1<<k1 | 1<<k2
	for i := range s.amplitudes {
		if i&mask == mask {
			s.amplitudes[i] = -s.amplitudes[i]
		}
	}

	return nil
}

// Fidelity returns |⟨a|b⟩|² for two registers of the same size
func Fidelity(a, b *StateVector) (float64, error) {
	if a.numQubits != b.numQubits {
		return 0, fmt.Errorf("%w: %d vs %d qubits", ErrDimensionMismatch, a.numQubits, b.numQubits)
	}

	var overlap complex128
	for i := range a.amplitudes {
		overlap += cmplx.Conj(a.amplitudes[i]) * b.amplitudes[i]
	}

	mag := cmplx.Abs(overlap)
	return mag * mag, nil
}

func (s *StateVector) checkQubit(k int) error {
	if k < 0 || k >= s.numQubits {
		return fmt.Errorf("%w: qubit %d not in [0, %d)", ErrInvalidQubitIndex, k, s.numQubits)
	}
	return nil
}

func (s *StateVector) checkBasisIndex(index int) error {
	if index < 0 || index >= len(s.amplitudes) {
		return fmt.Errorf("%w: index %d not in [0, %d)", ErrInvalidBasisIndex, index, len(s.amplitudes))
	}
	return nil
}
