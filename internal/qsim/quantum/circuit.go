package quantum

import (
	"fmt"
)

// GateName identifies a gate supported by the engine
type GateName string

const (
	GateH  GateName = "h"
	GateX  GateName = "x"
	GateZ  GateName = "z"
	GateRz GateName = "rz"
	GateCZ GateName = "cz"
)

// GateOp is one gate application in a circuit
type GateOp struct {
	Name   GateName  `json:"name" msgpack:"name"`
	Qubits []int     `json:"qubits" msgpack:"qubits"`
	Params []float64 `json:"params,omitempty" msgpack:"params,omitempty"`
}

func (op GateOp) String() string {
	switch op.Name {
	case GateRz:
		return fmt.Sprintf("rz(%g) q[%d]", op.Params[0], op.Qubits[0])
	case GateCZ:
		return fmt.Sprintf("cz q[%d],q[%d]", op.Qubits[0], op.Qubits[1])
	default:
		return fmt.Sprintf("%s q[%d]", op.Name, op.Qubits[0])
	}
}

// Circuit is an ordered gate sequence over a fixed number of qubits
type Circuit struct {
	numQubits int
	ops       []GateOp
}

// NewCircuit creates an empty circuit on numQubits qubits
func NewCircuit(numQubits int) (*Circuit, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, fmt.Errorf("%w: qubit count %d not in [1, %d]", ErrInvalidCircuitParameters, numQubits, MaxQubits)
	}
	return &Circuit{numQubits: numQubits}, nil
}

// NumQubits returns the circuit width
func (c *Circuit) NumQubits() int {
	return c.numQubits
}

// Len returns the number of recorded gates
func (c *Circuit) Len() int {
	return len(c.ops)
}

// Ops returns a copy of the recorded gates
func (c *Circuit) Ops() []GateOp {
	ops := make([]GateOp, len(c.ops))
	copy(ops, c.ops)
	return ops
}

// H appends a Hadamard on qubit k
func (c *Circuit) H(k int) error {
	return c.Add(GateOp{Name: GateH, Qubits: []int{k}})
}

// X appends a Pauli-X on qubit k
func (c *Circuit) X(k int) error {
	return c.Add(GateOp{Name: GateX, Qubits: []int{k}})
}

// Z appends a Pauli-Z on qubit k
func (c *Circuit) Z(k int) error {
	return c.Add(GateOp{Name: GateZ, Qubits: []int{k}})
}

// Rz appends a Z-rotation by theta on qubit k
func (c *Circuit) Rz(k int, theta float64) error {
	return c.Add(GateOp{Name: GateRz, Qubits: []int{k}, Params: []float64{theta}})
}

// CZ appends a controlled-Z between k1 and k2
func (c *Circuit) CZ(k1, k2 int) error {
	return c.Add(GateOp{Name: GateCZ, Qubits: []int{k1, k2}})
}

// Apply runs every recorded gate, in order, on state
func (c *Circuit) Apply(state *StateVector) error {
	if state.NumQubits() != c.numQubits {
		return fmt.Errorf("%w: circuit has %d qubits, state has %d", ErrDimensionMismatch, c.numQubits, state.NumQubits())
	}

	for i, op := range c.ops {
		if err := ApplyGate(state, op); err != nil {
			return fmt.Errorf("gate %d (%s): %w", i, op, err)
		}
	}
	return nil
}

// ApplyGate dispatches a single gate operation onto state
func ApplyGate(state *StateVector, op GateOp) error {
	if err := op.checkArity(); err != nil {
		return err
	}

	switch op.Name {
	case GateH:
		return state.Hadamard(op.Qubits[0])
	case GateX:
		return state.PauliX(op.Qubits[0])
	case GateZ:
		return state.PauliZ(op.Qubits[0])
	case GateRz:
		return state.Rz(op.Qubits[0], op.Params[0])
	case GateCZ:
		return state.CZ(op.Qubits[0], op.Qubits[1])
	default:
		return fmt.Errorf("%w: unknown gate %q", ErrInvalidCircuitParameters, op.Name)
	}
}

// Add appends an arbitrary gate operation after checking its arity and qubits
func (c *Circuit) Add(op GateOp) error {
	if err := op.checkArity(); err != nil {
		return err
	}
	for _, k := range op.Qubits {
		if k < 0 || k >= c.numQubits {
			return fmt.Errorf("%w: qubit %d not in [0, %d)", ErrInvalidQubitIndex, k, c.numQubits)
		}
	}
	if op.Name == GateCZ && op.Qubits[0] == op.Qubits[1] {
		return fmt.Errorf("%w: controlled-Z needs two distinct qubits, got %d twice", ErrInvalidQubitIndex, op.Qubits[0])
	}
	c.ops = append(c.ops, op)
	return nil
}

func (op GateOp) checkArity() error {
	qubits, params := 1, 0
	switch op.Name {
	case GateH, GateX, GateZ:
	case GateRz:
		params = 1
	case GateCZ:
		qubits = 2
	default:
		return fmt.Errorf("%w: unknown gate %q", ErrInvalidCircuitParameters, op.Name)
	}
	if len(op.Qubits) != qubits || len(op.Params) != params {
		return fmt.Errorf("%w: gate %q takes %d qubits and %d params", ErrInvalidCircuitParameters, op.Name, qubits, params)
	}
	return nil
}
