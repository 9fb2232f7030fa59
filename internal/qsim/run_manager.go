// Package qsim executes simulator programs on behalf of a driver and keeps a
// TTL-bounded in-memory registry of their results.
package qsim

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaskrrish/go-qsim/internal/models/sim"
	"github.com/jaskrrish/go-qsim/internal/qsim/qaoa"
	"github.com/jaskrrish/go-qsim/internal/qsim/qec"
	"github.com/jaskrrish/go-qsim/internal/qsim/quantum"
	"github.com/rs/zerolog"
)

// DefaultRunTTL applies when neither the manager nor the request sets one
const DefaultRunTTL = time.Hour

// Options configures a RunManager
type Options struct {
	Limits sim.Limits
	TTL    time.Duration
	Log    zerolog.Logger
}

// RunManager runs QAOA and QEC programs and stores their records
type RunManager struct {
	runs    map[uuid.UUID]*sim.Run
	mutex   sync.RWMutex
	source  quantum.Source
	sampler *quantum.Sampler
	limits  sim.Limits
	ttl     time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

// NewRunManager creates a run manager drawing all randomness from source
func NewRunManager(source quantum.Source, opts Options) *RunManager {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultRunTTL
	}

	return &RunManager{
		runs:    make(map[uuid.UUID]*sim.Run),
		source:  source,
		sampler: quantum.NewSampler(source),
		limits:  opts.Limits,
		ttl:     ttl,
		log:     opts.Log.With().Str("component", "run_manager").Logger(),
		now:     time.Now,
	}
}

// RunQAOA builds the ansatz, samples it and records the result
func (m *RunManager) RunQAOA(req *sim.QAOARunRequest) (*sim.Run, error) {
	if err := req.Validate(m.limits); err != nil {
		return nil, err
	}

	run := m.newRun(sim.RunQAOA, req.NumQubits, req.TTLMinutes)
	params := qaoa.Params{
		NumQubits: req.NumQubits,
		Depth:     req.Depth,
		Gamma:     req.Gamma,
		Beta:      req.Beta,
	}

	result, circuit, err := m.executeQAOA(params, req.Shots)
	if err != nil {
		m.finish(run, sim.RunFailed, err.Error())
		return nil, fmt.Errorf("qaoa run failed: %w", err)
	}

	run.QAOA = result
	run.GateCount = circuit.Len()
	run.QASM = circuit.QASM()
	m.finish(run, sim.RunCompleted, fmt.Sprintf("Most frequent outcome %s with cost %d", result.BestBitstring, result.BestCost))

	m.log.Info().
		Str("run_id", run.RunID.String()).
		Int("num_qubits", params.NumQubits).
		Int("depth", params.Depth).
		Int("shots", result.Shots).
		Float64("mean_cost", result.MeanCost).
		Str("best", result.BestBitstring).
		Msg("QAOA run completed")

	return run, nil
}

func (m *RunManager) executeQAOA(params qaoa.Params, shots int) (*sim.QAOAResult, *quantum.Circuit, error) {
	ansatz, err := qaoa.NewAnsatz(params)
	if err != nil {
		return nil, nil, err
	}

	eval, err := ansatz.Evaluate(m.sampler, shots)
	if err != nil {
		return nil, nil, err
	}

	expected, err := qaoa.ExpectedCost(ansatz.State)
	if err != nil {
		return nil, nil, err
	}

	return &sim.QAOAResult{
		NumQubits:     params.NumQubits,
		Depth:         params.Depth,
		Gamma:         params.Gamma,
		Beta:          params.Beta,
		Shots:         eval.Shots,
		Counts:        eval.Counts,
		Probabilities: quantum.CountsToProbabilities(eval.Counts),
		MeanCost:      eval.MeanCost,
		StdDevCost:    eval.StdDevCost,
		CutFraction:   eval.CutFraction,
		ExpectedCost:  expected,
		BestBitstring: eval.BestBitstring,
		BestCost:      eval.BestCost,
	}, ansatz.Circuit, nil
}

// RunQEC runs the requested number of repetition-code rounds
func (m *RunManager) RunQEC(req *sim.QECRunRequest) (*sim.Run, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	kind, err := qec.ParseErrorKind(req.ErrorKind)
	if err != nil {
		return nil, sim.ErrInvalidErrorKind
	}

	run := m.newRun(sim.RunQEC, qec.NumQubits, req.TTLMinutes)

	simulator, err := qec.NewSimulator(m.source)
	if err != nil {
		m.finish(run, sim.RunFailed, err.Error())
		return nil, fmt.Errorf("qec run failed: %w", err)
	}

	result := &sim.QECResult{
		ErrorKind: kind.String(),
		Rounds:    req.Rounds,
		Cycles:    make([]sim.QECCycle, 0, req.Rounds),
	}

	for round := 1; round <= req.Rounds; round++ {
		var report *qec.CycleReport
		if req.Qubit != nil {
			report, err = simulator.CycleOn(kind, *req.Qubit)
		} else {
			report, err = simulator.Cycle(kind)
		}
		if err != nil {
			m.finish(run, sim.RunFailed, err.Error())
			return nil, fmt.Errorf("qec round %d failed: %w", round, err)
		}

		lines := report.Lines()
		for _, line := range lines {
			m.log.Debug().Str("run_id", run.RunID.String()).Int("round", round).Msg(line)
		}

		if report.Recovered {
			result.Recovered++
		}
		result.Cycles = append(result.Cycles, cycleRecord(round, report, lines))
	}
	result.RecoveryRate = float64(result.Recovered) / float64(result.Rounds)

	run.QEC = result
	run.GateCount = simulator.Circuit().Len()
	run.QASM = simulator.Circuit().QASM()
	m.finish(run, sim.RunCompleted, fmt.Sprintf("Recovered %d of %d rounds", result.Recovered, result.Rounds))

	m.log.Info().
		Str("run_id", run.RunID.String()).
		Str("error_kind", result.ErrorKind).
		Int("rounds", result.Rounds).
		Float64("recovery_rate", result.RecoveryRate).
		Msg("QEC run completed")

	return run, nil
}

func cycleRecord(round int, report *qec.CycleReport, lines []string) sim.QECCycle {
	syndrome := make([]int, len(report.Correction.Syndrome))
	for i, bit := range report.Correction.Syndrome {
		syndrome[i] = int(bit)
	}

	return sim.QECCycle{
		Round:          round,
		InjectedQubit:  report.Injection.Qubit,
		Syndrome:       syndrome,
		CorrectedQubit: report.Correction.Qubit,
		Fidelity:       report.Fidelity,
		Recovered:      report.Recovered,
		Log:            lines,
	}
}

func (m *RunManager) newRun(kind sim.RunKind, numQubits, ttlMinutes int) *sim.Run {
	ttl := m.ttl
	if ttlMinutes > 0 {
		ttl = time.Duration(ttlMinutes) * time.Minute
	}

	now := m.now()
	return &sim.Run{
		RunID:     uuid.New(),
		Kind:      kind,
		NumQubits: numQubits,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// finish publishes run to the registry; failed runs stay inspectable.
// A run is never modified after it has been published.
func (m *RunManager) finish(run *sim.Run, status sim.RunStatus, message string) {
	now := m.now()
	run.Status = status
	run.Message = message
	run.CompletedAt = &now

	m.mutex.Lock()
	m.runs[run.RunID] = run
	m.mutex.Unlock()

	if status == sim.RunFailed {
		m.log.Warn().Str("run_id", run.RunID.String()).Str("kind", string(run.Kind)).Msg(message)
	}
}

// GetRun retrieves a run by ID
func (m *RunManager) GetRun(runID uuid.UUID) (*sim.Run, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	run, exists := m.runs[runID]
	if !exists || m.now().After(run.ExpiresAt) {
		return nil, sim.ErrRunNotFound
	}

	return run, nil
}

// ListRuns returns live runs, oldest first
func (m *RunManager) ListRuns() []sim.RunSummary {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	now := m.now()
	summaries := make([]sim.RunSummary, 0, len(m.runs))
	for _, run := range m.runs {
		if now.After(run.ExpiresAt) {
			continue
		}
		summaries = append(summaries, run.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
	return summaries
}

// DeleteRun removes a run from the registry
func (m *RunManager) DeleteRun(runID uuid.UUID) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.runs[runID]; !exists {
		return sim.ErrRunNotFound
	}
	delete(m.runs, runID)
	return nil
}

// CleanupExpiredRuns removes expired runs and reports how many were dropped
func (m *RunManager) CleanupExpiredRuns() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	removed := 0
	for id, run := range m.runs {
		if now.After(run.ExpiresAt) {
			delete(m.runs, id)
			removed++
		}
	}

	if removed > 0 {
		m.log.Info().Int("removed", removed).Msg("Expired runs cleaned up")
	}
	return removed
}
