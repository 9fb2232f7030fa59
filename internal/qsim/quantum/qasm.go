package quantum

import (
	"fmt"
	"strconv"
	"strings"
)

const qasmHeader = "OPENQASM 2.0;\ninclude \"qelib1.inc\";\n"

// QASM renders the circuit as an OpenQASM 2.0 program that measures every
// qubit into the classical bit of the same index after the last gate.
func (c *Circuit) QASM() string {
	var program strings.Builder

	program.WriteString(qasmHeader)
	fmt.Fprintf(&program, "\nqreg q[%d];\ncreg c[%d];\n\n", c.numQubits, c.numQubits)

	for _, op := range c.ops {
		program.WriteString(qasmStatement(op))
		program.WriteByte('\n')
	}
	program.WriteByte('\n')

	for k := 0; k < c.numQubits; k++ {
		fmt.Fprintf(&program, "measure q[%d] -> c[%d];\n", k, k)
	}

	return program.String()
}

func qasmStatement(op GateOp) string {
	switch op.Name {
	case GateRz:
		return fmt.Sprintf("rz(%s) q[%d];", strconv.FormatFloat(op.Params[0], 'g', -1, 64), op.Qubits[0])
	case GateCZ:
		return fmt.Sprintf("cz q[%d],q[%d];", op.Qubits[0], op.Qubits[1])
	default:
		return fmt.Sprintf("%s q[%d];", op.Name, op.Qubits[0])
	}
}

// MostFrequent returns the outcome with the highest count.
// Ties go to the lexicographically smallest bitstring so results are stable.
func MostFrequent(counts map[string]int) (string, int) {
	best := ""
	bestCount := 0
	for outcome, count := range counts {
		if count > bestCount || (count == bestCount && outcome < best) {
			best = outcome
			bestCount = count
		}
	}
	return best, bestCount
}

// CountsToProbabilities converts measurement counts to empirical frequencies
func CountsToProbabilities(counts map[string]int) map[string]float64 {
	totalShots := 0
	for _, count := range counts {
		totalShots += count
	}

	probabilities := make(map[string]float64)
	if totalShots == 0 {
		return probabilities
	}
	for outcome, count := range counts {
		probabilities[outcome] = float64(count) / float64(totalShots)
	}

	return probabilities
}
