// Package qec simulates a 3-qubit repetition code: encode a logical state,
// inject a random single-qubit fault, then measure a syndrome and correct the
// minority qubit by majority vote.
package qec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jaskrrish/go-qsim/internal/qsim/quantum"
)

// NumQubits is the fixed width of the code
const NumQubits = 3

// recoveredTolerance is the fidelity gap below which a round counts as recovered
const recoveredTolerance = 1e-9

var ErrUnknownErrorKind = &quantum.SimError{Message: "unknown error kind"}

// ErrorKind selects the fault injected and the gate used to correct it
type ErrorKind int

const (
	BitFlip ErrorKind = iota
	PhaseFlip
)

func (k ErrorKind) String() string {
	switch k {
	case BitFlip:
		return "bit-flip"
	case PhaseFlip:
		return "phase-flip"
	default:
		return "unknown"
	}
}

// Gate returns the Pauli gate that both injects and corrects this kind of fault
func (k ErrorKind) Gate() quantum.GateName {
	if k == PhaseFlip {
		return quantum.GateZ
	}
	return quantum.GateX
}

// ParseErrorKind accepts "bit-flip"/"bit"/"x" and "phase-flip"/"phase"/"z"
func ParseErrorKind(value string) (ErrorKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "bit-flip", "bitflip", "bit", "x":
		return BitFlip, nil
	case "phase-flip", "phaseflip", "phase", "z":
		return PhaseFlip, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownErrorKind, value)
	}
}

func (k ErrorKind) validate() error {
	if k != BitFlip && k != PhaseFlip {
		return fmt.Errorf("%w: %d", ErrUnknownErrorKind, int(k))
	}
	return nil
}

// Injection reports which qubit received a fault
type Injection struct {
	Kind  ErrorKind `json:"kind"`
	Qubit int       `json:"qubit"`
}

func (i Injection) String() string {
	return fmt.Sprintf("Introducing %s (%s) error on qubit: %d",
		strings.ToUpper(string(i.Kind.Gate())), i.Kind, i.Qubit)
}

// Syndrome is one independently sampled outcome per physical qubit
type Syndrome [NumQubits]quantum.Bit

func (s Syndrome) String() string {
	return fmt.Sprintf("Syndrome bits: %d %d %d", s[0], s[1], s[2])
}

// Minority returns the qubit that disagrees with the other two, if any
func (s Syndrome) Minority() (int, bool) {
	switch {
	case s[0] != s[1] && s[0] != s[2]:
		return 0, true
	case s[1] != s[0] && s[1] != s[2]:
		return 1, true
	case s[2] != s[0] && s[2] != s[1]:
		return 2, true
	default:
		return -1, false
	}
}

// Correction reports the outcome of one majority-vote decode
type Correction struct {
	Kind     ErrorKind `json:"kind"`
	Syndrome Syndrome  `json:"syndrome"`
	Qubit    int       `json:"qubit"` // -1 when no correction was applied
	Applied  bool      `json:"applied"`
}

func (c Correction) String() string {
	if !c.Applied {
		return "No correction applied"
	}
	if c.Kind == PhaseFlip {
		return fmt.Sprintf("Correcting phase error on qubit %d", c.Qubit)
	}
	return fmt.Sprintf("Correcting error on qubit %d", c.Qubit)
}

// Simulator owns a 3-qubit register and the shared random source
type Simulator struct {
	state   *quantum.StateVector
	encoded *quantum.StateVector
	sampler *quantum.Sampler
	source  quantum.Source
	circuit *quantum.Circuit
}

// NewSimulator creates a simulator in |000⟩
func NewSimulator(source quantum.Source) (*Simulator, error) {
	state, err := quantum.NewStateVector(NumQubits)
	if err != nil {
		return nil, err
	}
	circuit, err := quantum.NewCircuit(NumQubits)
	if err != nil {
		return nil, err
	}

	return &Simulator{
		state:   state,
		encoded: state.Clone(),
		sampler: quantum.NewSampler(source),
		source:  source,
		circuit: circuit,
	}, nil
}

// State returns a copy of the current register
func (s *Simulator) State() *quantum.StateVector {
	return s.state.Clone()
}

// Circuit returns the gates applied since the last encode, starting with
// a gate-level preparation equivalent to the encoder.
func (s *Simulator) Circuit() *quantum.Circuit {
	return s.circuit
}

// EncodeBitFlip prepares (|000⟩ + |111⟩)/√2
func (s *Simulator) EncodeBitFlip() error {
	return s.encode()
}

// EncodePhaseFlip prepares the same vector as EncodeBitFlip. No basis change
// to |+++⟩/|---⟩ is applied.
func (s *Simulator) EncodePhaseFlip() error {
	return s.encode()
}

// Encode dispatches to the encoder for kind
func (s *Simulator) Encode(kind ErrorKind) error {
	if err := kind.validate(); err != nil {
		return err
	}
	if kind == PhaseFlip {
		return s.EncodePhaseFlip()
	}
	return s.EncodeBitFlip()
}

func (s *Simulator) encode() error {
	amp := complex(1/math.Sqrt2, 0)
	for i := 0; i < s.state.Len(); i++ {
		if err := s.state.SetAmplitude(i, 0); err != nil {
			return err
		}
	}
	if err := s.state.SetAmplitude(0, amp); err != nil {
		return err
	}
	if err := s.state.SetAmplitude(1<<NumQubits-1, amp); err != nil {
		return err
	}
	s.encoded = s.state.Clone()

	circuit, err := preparationCircuit()
	if err != nil {
		return err
	}
	s.circuit = circuit
	return nil
}

// preparationCircuit expresses the encoder in the engine's gate set:
// H on qubit 0, then CNOT(0→t) = H(t) CZ(0,t) H(t) for t = 1, 2.
func preparationCircuit() (*quantum.Circuit, error) {
	circuit, err := quantum.NewCircuit(NumQubits)
	if err != nil {
		return nil, err
	}
	if err := circuit.H(0); err != nil {
		return nil, err
	}
	for target := 1; target < NumQubits; target++ {
		if err := circuit.H(target); err != nil {
			return nil, err
		}
		if err := circuit.CZ(0, target); err != nil {
			return nil, err
		}
		if err := circuit.H(target); err != nil {
			return nil, err
		}
	}
	return circuit, nil
}

// InjectError applies a fault of kind to a qubit drawn uniformly from {0, 1, 2}
func (s *Simulator) InjectError(kind ErrorKind) (Injection, error) {
	if err := kind.validate(); err != nil {
		return Injection{}, err
	}
	return s.InjectErrorOn(kind, s.source.Intn(NumQubits))
}

// InjectErrorOn applies a fault of kind to a chosen qubit
func (s *Simulator) InjectErrorOn(kind ErrorKind, qubit int) (Injection, error) {
	if err := kind.validate(); err != nil {
		return Injection{}, err
	}
	if err := s.apply(kind, qubit); err != nil {
		return Injection{}, err
	}
	return Injection{Kind: kind, Qubit: qubit}, nil
}

// Syndrome samples each qubit's marginal independently from the uncollapsed state
func (s *Simulator) Syndrome() (Syndrome, error) {
	var syndrome Syndrome
	for k := 0; k < NumQubits; k++ {
		bit, err := s.sampler.SampleQubit(s.state, k)
		if err != nil {
			return Syndrome{}, fmt.Errorf("failed to sample qubit %d: %w", k, err)
		}
		syndrome[k] = bit
	}
	return syndrome, nil
}

// Decode measures a syndrome and, if exactly one qubit disagrees, applies
// the corrective gate of kind to it.
func (s *Simulator) Decode(kind ErrorKind) (Correction, error) {
	if err := kind.validate(); err != nil {
		return Correction{}, err
	}

	syndrome, err := s.Syndrome()
	if err != nil {
		return Correction{}, err
	}
	return s.Correct(kind, syndrome)
}

// Correct applies the majority-vote rule to an already measured syndrome
func (s *Simulator) Correct(kind ErrorKind, syndrome Syndrome) (Correction, error) {
	if err := kind.validate(); err != nil {
		return Correction{}, err
	}

	correction := Correction{Kind: kind, Syndrome: syndrome, Qubit: -1}
	qubit, ok := syndrome.Minority()
	if !ok {
		return correction, nil
	}

	if err := s.apply(kind, qubit); err != nil {
		return Correction{}, err
	}
	correction.Qubit = qubit
	correction.Applied = true
	return correction, nil
}

// StateLines renders every amplitude as "|i>: (re,im)" with 6 significant digits
func (s *Simulator) StateLines() []string {
	amplitudes := s.state.Amplitudes()
	lines := make([]string, len(amplitudes))
	for i, a := range amplitudes {
		lines[i] = fmt.Sprintf("|%d>: (%s,%s)", i, formatComponent(real(a)), formatComponent(imag(a)))
	}
	return lines
}

func formatComponent(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// Fidelity compares the register against the most recently encoded state
func (s *Simulator) Fidelity() (float64, error) {
	return quantum.Fidelity(s.encoded, s.state)
}

// CycleReport collects the diagnostics of one encode/inject/decode round
type CycleReport struct {
	Kind       ErrorKind
	Injection  Injection
	Correction Correction
	Fidelity   float64
	Recovered  bool
}

// Lines renders the round as display text, one step per line
func (r *CycleReport) Lines() []string {
	return []string{
		r.Injection.String(),
		r.Correction.Syndrome.String(),
		r.Correction.String(),
	}
}

// Cycle runs encode, random injection and decode for kind
func (s *Simulator) Cycle(kind ErrorKind) (*CycleReport, error) {
	return s.cycle(kind, func() (Injection, error) {
		return s.InjectError(kind)
	})
}

// CycleOn runs a round with the fault placed on a chosen qubit
func (s *Simulator) CycleOn(kind ErrorKind, qubit int) (*CycleReport, error) {
	return s.cycle(kind, func() (Injection, error) {
		return s.InjectErrorOn(kind, qubit)
	})
}

func (s *Simulator) cycle(kind ErrorKind, inject func() (Injection, error)) (*CycleReport, error) {
	if err := s.Encode(kind); err != nil {
		return nil, err
	}

	injection, err := inject()
	if err != nil {
		return nil, fmt.Errorf("failed to inject %s error: %w", kind, err)
	}

	correction, err := s.Decode(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to decode: %w", err)
	}

	fidelity, err := s.Fidelity()
	if err != nil {
		return nil, err
	}

	return &CycleReport{
		Kind:       kind,
		Injection:  injection,
		Correction: correction,
		Fidelity:   fidelity,
		Recovered:  fidelity >= 1-recoveredTolerance,
	}, nil
}

func (s *Simulator) apply(kind ErrorKind, qubit int) error {
	var err error
	if kind == PhaseFlip {
		err = s.state.PauliZ(qubit)
	} else {
		err = s.state.PauliX(qubit)
	}
	if err != nil {
		return err
	}
	return s.circuit.Add(quantum.GateOp{Name: kind.Gate(), Qubits: []int{qubit}})
}
