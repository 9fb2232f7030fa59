package qec

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/jaskrrish/go-qsim/internal/qsim/quantum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

// scriptedSource replays fixed values so injections and syndromes are fully determined
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) Intn(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func newSimulator(t *testing.T, source quantum.Source) *Simulator {
	t.Helper()
	sim, err := NewSimulator(source)
	require.NoError(t, err)
	return sim
}

func assertAmplitudes(t *testing.T, expected []complex128, state *quantum.StateVector) {
	t.Helper()
	actual := state.Amplitudes()
	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.InDelta(t, 0, cmplx.Abs(expected[i]-actual[i]), tolerance, "amplitude %d", i)
	}
}

var h = complex(1/math.Sqrt2, 0)

func TestNewSimulatorStartsInZero(t *testing.T) {
	sim := newSimulator(t, quantum.NewSource(1))
	assertAmplitudes(t, []complex128{1, 0, 0, 0, 0, 0, 0, 0}, sim.State())
}

// TestEncoders tests that both encoders produce (|000⟩ + |111⟩)/√2
func TestEncoders(t *testing.T) {
	ghz := []complex128{h, 0, 0, 0, 0, 0, 0, h}

	bit := newSimulator(t, quantum.NewSource(1))
	require.NoError(t, bit.EncodeBitFlip())
	assertAmplitudes(t, ghz, bit.State())

	phase := newSimulator(t, quantum.NewSource(1))
	require.NoError(t, phase.EncodePhaseFlip())
	assertAmplitudes(t, ghz, phase.State())

	assert.Equal(t, bit.State().Amplitudes(), phase.State().Amplitudes())
}

// TestEncodeOverwritesPriorState tests that every other amplitude is cleared
func TestEncodeOverwritesPriorState(t *testing.T) {
	sim := newSimulator(t, quantum.NewSource(1))
	require.NoError(t, sim.EncodeBitFlip())
	_, err := sim.InjectErrorOn(BitFlip, 1)
	require.NoError(t, err)

	require.NoError(t, sim.Encode(BitFlip))
	assertAmplitudes(t, []complex128{h, 0, 0, 0, 0, 0, 0, h}, sim.State())

	f, err := sim.Fidelity()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, f, tolerance)
}

func TestStateLines(t *testing.T) {
	sim := newSimulator(t, quantum.NewSource(1))
	require.NoError(t, sim.EncodePhaseFlip())
	_, err := sim.InjectErrorOn(PhaseFlip, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"|0>: (0.707107,0)",
		"|1>: (0,0)",
		"|2>: (0,0)",
		"|3>: (0,0)",
		"|4>: (0,0)",
		"|5>: (0,0)",
		"|6>: (0,0)",
		"|7>: (-0.707107,0)",
	}, sim.StateLines())
}

// TestPreparationCircuitMatchesEncoder tests the gate-level encoder recorded for QASM export
func TestPreparationCircuitMatchesEncoder(t *testing.T) {
	sim := newSimulator(t, quantum.NewSource(1))
	require.NoError(t, sim.EncodeBitFlip())

	state, err := quantum.NewStateVector(NumQubits)
	require.NoError(t, err)
	require.NoError(t, sim.Circuit().Apply(state))

	assertAmplitudes(t, sim.State().Amplitudes(), state)
}

// TestInjectError tests that the injected qubit comes from the shared source
func TestInjectError(t *testing.T) {
	tests := []struct {
		name     string
		kind     ErrorKind
		draw     int
		expected []complex128
	}{
		{"Bit flip on qubit 0", BitFlip, 0, []complex128{0, h, 0, 0, 0, 0, h, 0}},
		{"Bit flip on qubit 2", BitFlip, 2, []complex128{0, 0, 0, h, h, 0, 0, 0}},
		{"Phase flip on qubit 1", PhaseFlip, 1, []complex128{h, 0, 0, 0, 0, 0, 0, -h}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newSimulator(t, &scriptedSource{ints: []int{tt.draw}})
			require.NoError(t, sim.Encode(tt.kind))

			injection, err := sim.InjectError(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.draw, injection.Qubit)
			assert.Equal(t, tt.kind, injection.Kind)
			assertAmplitudes(t, tt.expected, sim.State())
		})
	}
}

func TestInjectErrorOnRejectsInvalidQubit(t *testing.T) {
	sim := newSimulator(t, quantum.NewSource(1))
	require.NoError(t, sim.EncodeBitFlip())

	_, err := sim.InjectErrorOn(BitFlip, 3)
	assert.ErrorIs(t, err, quantum.ErrInvalidQubitIndex)
	_, err = sim.InjectErrorOn(PhaseFlip, -1)
	assert.ErrorIs(t, err, quantum.ErrInvalidQubitIndex)
}

// TestDecodeCorrectsMinorityQubit injects on a fixed qubit and scripts a 2-1 vote in its favor
func TestDecodeCorrectsMinorityQubit(t *testing.T) {
	for qubit := 0; qubit < NumQubits; qubit++ {
		// every marginal of the faulted state is 1/2; draws below 0.5 read 0
		floats := []float64{0.1, 0.1, 0.1}
		floats[qubit] = 0.9

		sim := newSimulator(t, &scriptedSource{ints: []int{qubit}, floats: floats})
		require.NoError(t, sim.EncodeBitFlip())

		injection, err := sim.InjectError(BitFlip)
		require.NoError(t, err)
		require.Equal(t, qubit, injection.Qubit)

		correction, err := sim.Decode(BitFlip)
		require.NoError(t, err)
		assert.True(t, correction.Applied)
		assert.Equal(t, qubit, correction.Qubit)

		expected := Syndrome{quantum.Zero, quantum.Zero, quantum.Zero}
		expected[qubit] = quantum.One
		assert.Equal(t, expected, correction.Syndrome)

		f, err := sim.Fidelity()
		require.NoError(t, err)
		assert.InDelta(t, 1.0, f, tolerance, "qubit %d", qubit)
	}
}

// TestDecodeNoCorrectionWhenUnanimous tests that an agreeing syndrome leaves the state alone
func TestDecodeNoCorrectionWhenUnanimous(t *testing.T) {
	for _, floats := range [][]float64{{0.1, 0.2, 0.3}, {0.6, 0.7, 0.8}} {
		sim := newSimulator(t, &scriptedSource{ints: []int{1}, floats: floats})
		require.NoError(t, sim.EncodeBitFlip())
		_, err := sim.InjectError(BitFlip)
		require.NoError(t, err)
		before := sim.State().Amplitudes()
		opsBefore := sim.Circuit().Len()

		correction, err := sim.Decode(BitFlip)
		require.NoError(t, err)
		assert.False(t, correction.Applied)
		assert.Equal(t, -1, correction.Qubit)
		assert.Equal(t, "No correction applied", correction.String())

		assert.Equal(t, before, sim.State().Amplitudes())
		assert.Equal(t, opsBefore, sim.Circuit().Len())
	}
}

// TestDecodePhaseFlipAppliesZ tests that the phase-flip decoder corrects with Z
func TestDecodePhaseFlipAppliesZ(t *testing.T) {
	sim := newSimulator(t, &scriptedSource{ints: []int{2}, floats: []float64{0.1, 0.1, 0.9}})
	require.NoError(t, sim.EncodePhaseFlip())
	_, err := sim.InjectError(PhaseFlip)
	require.NoError(t, err)

	correction, err := sim.Decode(PhaseFlip)
	require.NoError(t, err)
	assert.True(t, correction.Applied)
	assert.Equal(t, 2, correction.Qubit)
	assert.Equal(t, "Correcting phase error on qubit 2", correction.String())

	assertAmplitudes(t, []complex128{h, 0, 0, 0, 0, 0, 0, h}, sim.State())

	ops := sim.Circuit().Ops()
	require.GreaterOrEqual(t, len(ops), 2)
	assert.Equal(t, quantum.GateOp{Name: quantum.GateZ, Qubits: []int{2}}, ops[len(ops)-2])
	assert.Equal(t, quantum.GateOp{Name: quantum.GateZ, Qubits: []int{2}}, ops[len(ops)-1])
}

// TestSyndromeDoesNotCollapse tests that sampling the syndrome leaves the register untouched
func TestSyndromeDoesNotCollapse(t *testing.T) {
	sim := newSimulator(t, quantum.NewSource(5))
	require.NoError(t, sim.EncodeBitFlip())
	before := sim.State().Amplitudes()

	for i := 0; i < 50; i++ {
		_, err := sim.Syndrome()
		require.NoError(t, err)
	}
	assert.Equal(t, before, sim.State().Amplitudes())
}

// TestSyndromeMinority covers the majority-vote rule for every syndrome
func TestSyndromeMinority(t *testing.T) {
	tests := []struct {
		syndrome Syndrome
		qubit    int
		ok       bool
	}{
		{Syndrome{0, 0, 0}, -1, false},
		{Syndrome{1, 1, 1}, -1, false},
		{Syndrome{1, 0, 0}, 0, true},
		{Syndrome{0, 1, 1}, 0, true},
		{Syndrome{0, 1, 0}, 1, true},
		{Syndrome{1, 0, 1}, 1, true},
		{Syndrome{0, 0, 1}, 2, true},
		{Syndrome{1, 1, 0}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.syndrome.String(), func(t *testing.T) {
			qubit, ok := tt.syndrome.Minority()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.qubit, qubit)
		})
	}
}

func TestDiagnosticText(t *testing.T) {
	assert.Equal(t, "Introducing X (bit-flip) error on qubit: 1", Injection{Kind: BitFlip, Qubit: 1}.String())
	assert.Equal(t, "Introducing Z (phase-flip) error on qubit: 0", Injection{Kind: PhaseFlip, Qubit: 0}.String())
	assert.Equal(t, "Syndrome bits: 0 1 0", Syndrome{0, 1, 0}.String())
	assert.Equal(t, "Correcting error on qubit 1", Correction{Kind: BitFlip, Qubit: 1, Applied: true}.String())
}

// TestCycle tests a full deterministic encode, inject, decode round
func TestCycle(t *testing.T) {
	sim := newSimulator(t, &scriptedSource{ints: []int{0}, floats: []float64{0.9, 0.1, 0.1}})

	report, err := sim.Cycle(BitFlip)
	require.NoError(t, err)

	assert.Equal(t, BitFlip, report.Kind)
	assert.Equal(t, 0, report.Injection.Qubit)
	assert.Equal(t, 0, report.Correction.Qubit)
	assert.True(t, report.Recovered)
	assert.InDelta(t, 1.0, report.Fidelity, tolerance)
	assert.Equal(t, []string{
		"Introducing X (bit-flip) error on qubit: 0",
		"Syndrome bits: 1 0 0",
		"Correcting error on qubit 0",
	}, report.Lines())

	// 7 preparation gates, the injection and the correction
	assert.Equal(t, 9, sim.Circuit().Len())
}

// TestCycleMiscorrection tests a vote that blames the wrong qubit
func TestCycleMiscorrection(t *testing.T) {
	sim := newSimulator(t, &scriptedSource{ints: []int{0}, floats: []float64{0.1, 0.9, 0.1}})

	report, err := sim.Cycle(BitFlip)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Injection.Qubit)
	assert.Equal(t, 1, report.Correction.Qubit)
	assert.False(t, report.Recovered)
	assert.InDelta(t, 0.0, report.Fidelity, tolerance)
}

func TestCycleOn(t *testing.T) {
	sim := newSimulator(t, &scriptedSource{floats: []float64{0.1, 0.1, 0.9}})

	report, err := sim.CycleOn(PhaseFlip, 2)
	require.NoError(t, err)
	assert.Equal(t, "Introducing Z (phase-flip) error on qubit: 2", report.Injection.String())
	assert.Equal(t, 2, report.Correction.Qubit)
	assert.True(t, report.Recovered)

	_, err = sim.CycleOn(BitFlip, 5)
	assert.ErrorIs(t, err, quantum.ErrInvalidQubitIndex)
}

// TestCycleSeeded runs many rounds on a seeded source
func TestCycleSeeded(t *testing.T) {
	run := func() []string {
		sim, err := NewSimulator(quantum.NewSource(31))
		require.NoError(t, err)

		var lines []string
		for i := 0; i < 50; i++ {
			kind := BitFlip
			if i%2 == 1 {
				kind = PhaseFlip
			}
			report, err := sim.Cycle(kind)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, report.Injection.Qubit, 0)
			assert.Less(t, report.Injection.Qubit, NumQubits)
			lines = append(lines, report.Lines()...)
		}
		return lines
	}

	assert.Equal(t, run(), run())
}

func TestInvalidErrorKind(t *testing.T) {
	sim := newSimulator(t, quantum.NewSource(1))

	assert.ErrorIs(t, sim.Encode(ErrorKind(7)), ErrUnknownErrorKind)
	_, err := sim.InjectError(ErrorKind(7))
	assert.ErrorIs(t, err, ErrUnknownErrorKind)
	_, err = sim.Decode(ErrorKind(-1))
	assert.ErrorIs(t, err, ErrUnknownErrorKind)
	_, err = sim.Cycle(ErrorKind(2))
	assert.ErrorIs(t, err, ErrUnknownErrorKind)
}

func TestParseErrorKind(t *testing.T) {
	tests := []struct {
		input       string
		expected    ErrorKind
		shouldError bool
	}{
		{"bit-flip", BitFlip, false},
		{"X", BitFlip, false},
		{" bit ", BitFlip, false},
		{"phase-flip", PhaseFlip, false},
		{"Phase", PhaseFlip, false},
		{"z", PhaseFlip, false},
		{"y", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, err := ParseErrorKind(tt.input)
			if tt.shouldError {
				assert.ErrorIs(t, err, ErrUnknownErrorKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
		})
	}

	assert.Equal(t, "bit-flip", BitFlip.String())
	assert.Equal(t, "phase-flip", PhaseFlip.String())
	assert.Equal(t, "unknown", ErrorKind(9).String())
}
