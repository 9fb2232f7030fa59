// Package qaoa builds the layered QAOA ansatz for a single-edge Max-Cut problem
// and scores sampled outcomes against the cut.
package qaoa

import (
	"fmt"

	"github.com/jaskrrish/go-qsim/internal/qsim/quantum"
	"gonum.org/v1/gonum/stat"
)

// Params holds the circuit parameters of one QAOA run
type Params struct {
	NumQubits int     // register size, at least 2
	Depth     int     // number of (cost, mixer) layers, p
	Gamma     float64 // cost-layer rotation angle
	Beta      float64 // mixer angle; accepted but unused by the full bit-flip mixer
}

// Validate rejects parameters before any gate is applied
func (p Params) Validate() error {
	if p.NumQubits < 2 {
		return fmt.Errorf("%w: cost layer acts on qubits 0 and 1, need at least 2 qubits, got %d",
			quantum.ErrInvalidCircuitParameters, p.NumQubits)
	}
	if p.NumQubits > quantum.MaxQubits {
		return fmt.Errorf("%w: qubit count %d exceeds %d", quantum.ErrInvalidCircuitParameters, p.NumQubits, quantum.MaxQubits)
	}
	if p.Depth < 0 {
		return fmt.Errorf("%w: depth must be non-negative, got %d", quantum.ErrInvalidCircuitParameters, p.Depth)
	}
	return nil
}

// BuildCircuit lays out the ansatz: H on every qubit, then Depth blocks of
// CZ(0,1), Rz(0,γ), Rz(1,γ) followed by X on every qubit.
func BuildCircuit(p Params) (*quantum.Circuit, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	circuit, err := quantum.NewCircuit(p.NumQubits)
	if err != nil {
		return nil, err
	}

	for k := 0; k < p.NumQubits; k++ {
		if err := circuit.H(k); err != nil {
			return nil, err
		}
	}

	for layer := 0; layer < p.Depth; layer++ {
		if err := CostLayer(circuit, p.Gamma); err != nil {
			return nil, fmt.Errorf("cost layer %d: %w", layer, err)
		}
		if err := MixerLayer(circuit, p.Beta); err != nil {
			return nil, fmt.Errorf("mixer layer %d: %w", layer, err)
		}
	}

	return circuit, nil
}

// CostLayer appends the hardwired single-edge interaction between qubits 0 and 1
func CostLayer(circuit *quantum.Circuit, gamma float64) error {
	if err := circuit.CZ(0, 1); err != nil {
		return err
	}
	if err := circuit.Rz(0, gamma); err != nil {
		return err
	}
	return circuit.Rz(1, gamma)
}

// MixerLayer appends a full bit-flip on every qubit. beta is ignored: the
// mixer is X, not Rx(β).
func MixerLayer(circuit *quantum.Circuit, beta float64) error {
	for k := 0; k < circuit.NumQubits(); k++ {
		if err := circuit.X(k); err != nil {
			return err
		}
	}
	return nil
}

// Ansatz is a prepared QAOA state together with the circuit that produced it
type Ansatz struct {
	Params  Params
	Circuit *quantum.Circuit
	State   *quantum.StateVector
}

// NewAnsatz builds the circuit and runs it on a fresh register
func NewAnsatz(p Params) (*Ansatz, error) {
	circuit, err := BuildCircuit(p)
	if err != nil {
		return nil, err
	}

	state, err := quantum.NewStateVector(p.NumQubits)
	if err != nil {
		return nil, err
	}
	if err := circuit.Apply(state); err != nil {
		return nil, fmt.Errorf("failed to prepare ansatz: %w", err)
	}

	return &Ansatz{
		Params:  p,
		Circuit: circuit,
		State:   state,
	}, nil
}

// Sample draws one outcome and scores it
func (a *Ansatz) Sample(sampler *quantum.Sampler) (string, int, error) {
	bitstring, err := sampler.SampleBitstring(a.State)
	if err != nil {
		return "", 0, err
	}

	cost, err := MaxCutCost(bitstring)
	if err != nil {
		return "", 0, err
	}
	return bitstring, cost, nil
}

// Evaluation summarizes the cost over many sampled outcomes
type Evaluation struct {
	Shots         int
	Counts        map[string]int
	MeanCost      float64
	StdDevCost    float64
	CutFraction   float64 // fraction of shots with cost 1
	BestBitstring string  // most frequent outcome
	BestCost      int
}

// Evaluate samples shots outcomes and aggregates their Max-Cut cost
func (a *Ansatz) Evaluate(sampler *quantum.Sampler, shots int) (*Evaluation, error) {
	counts, err := sampler.Histogram(a.State, shots)
	if err != nil {
		return nil, err
	}

	outcomes := make([]float64, 0, len(counts))
	weights := make([]float64, 0, len(counts))
	cut := 0
	for bitstring, count := range counts {
		cost, err := MaxCutCost(bitstring)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, float64(cost))
		weights = append(weights, float64(count))
		cut += cost * count
	}

	eval := &Evaluation{
		Shots:       shots,
		Counts:      counts,
		CutFraction: float64(cut) / float64(shots),
	}
	eval.MeanCost, eval.StdDevCost = weightedMeanStdDev(outcomes, weights)

	eval.BestBitstring, _ = quantum.MostFrequent(counts)
	eval.BestCost, err = MaxCutCost(eval.BestBitstring)
	if err != nil {
		return nil, err
	}

	return eval, nil
}

// weightedMeanStdDev reports a zero deviation when a single outcome was observed
func weightedMeanStdDev(x, weights []float64) (float64, float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, weights)
}
