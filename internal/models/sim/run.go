package sim

import (
	"time"

	"github.com/google/uuid"
)

// RunKind identifies the program a run executed
type RunKind string

const (
	RunQAOA RunKind = "qaoa"
	RunQEC  RunKind = "qec"
)

// RunStatus represents the outcome of a run
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is the registry record of one executed program
type Run struct {
	RunID       uuid.UUID   `json:"run_id"`
	Kind        RunKind     `json:"kind"`
	Status      RunStatus   `json:"status"`
	NumQubits   int         `json:"num_qubits"`
	GateCount   int         `json:"gate_count"`
	Message     string      `json:"message,omitempty"`
	QAOA        *QAOAResult `json:"qaoa,omitempty"`
	QEC         *QECResult  `json:"qec,omitempty"`
	QASM        string      `json:"-"` // served by the qasm endpoint only
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// QAOAResult holds the sampled outcome statistics of a QAOA run
type QAOAResult struct {
	NumQubits     int                `json:"num_qubits"`
	Depth         int                `json:"depth"`
	Gamma         float64            `json:"gamma"`
	Beta          float64            `json:"beta"`
	Shots         int                `json:"shots"`
	Counts        map[string]int     `json:"counts"`
	Probabilities map[string]float64 `json:"probabilities"`
	MeanCost      float64            `json:"mean_cost"`
	StdDevCost    float64            `json:"stddev_cost"`
	CutFraction   float64            `json:"cut_fraction"`
	ExpectedCost  float64            `json:"expected_cost"`
	BestBitstring string             `json:"best_bitstring"`
	BestCost      int                `json:"best_cost"`
}

// QECResult aggregates the rounds of a QEC run
type QECResult struct {
	ErrorKind    string     `json:"error_kind"`
	Rounds       int        `json:"rounds"`
	Recovered    int        `json:"recovered"`
	RecoveryRate float64    `json:"recovery_rate"`
	Cycles       []QECCycle `json:"cycles"`
}

// QECCycle is one encode, inject, decode round
type QECCycle struct {
	Round          int      `json:"round"`
	InjectedQubit  int      `json:"injected_qubit"`
	Syndrome       []int    `json:"syndrome"`
	CorrectedQubit int      `json:"corrected_qubit"` // -1 when no correction was applied
	Fidelity       float64  `json:"fidelity"`
	Recovered      bool     `json:"recovered"`
	Log            []string `json:"log"`
}

// RunSummary is the list view of a run
type RunSummary struct {
	RunID     uuid.UUID `json:"run_id"`
	Kind      RunKind   `json:"kind"`
	Status    RunStatus `json:"status"`
	NumQubits int       `json:"num_qubits"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Summary returns the list view of r
func (r *Run) Summary() RunSummary {
	return RunSummary{
		RunID:     r.RunID,
		Kind:      r.Kind,
		Status:    r.Status,
		NumQubits: r.NumQubits,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}
}

// RunResponse wraps a single run
type RunResponse struct {
	Run   *Run   `json:"run"`
	Error string `json:"error,omitempty"`
}

// RunListResponse wraps the run registry listing
type RunListResponse struct {
	Runs  []RunSummary `json:"runs"`
	Count int          `json:"count"`
}
