// Package sim holds the request, response and run record types of the
// simulator API.
package sim

import (
	"fmt"

	"github.com/jaskrrish/go-qsim/internal/qsim/qec"
)

const (
	maxDepth  = 64
	maxRounds = 1000
)

// Limits bounds request sizes; zero fields fall back to the package defaults
type Limits struct {
	DefaultShots int
	MaxShots     int
	MaxQubits    int
}

// DefaultLimits are used when the server is not configured otherwise
var DefaultLimits = Limits{
	DefaultShots: 1024,
	MaxShots:     100000,
	MaxQubits:    16,
}

func (l Limits) withDefaults() Limits {
	if l.DefaultShots <= 0 {
		l.DefaultShots = DefaultLimits.DefaultShots
	}
	if l.MaxShots <= 0 {
		l.MaxShots = DefaultLimits.MaxShots
	}
	if l.MaxQubits <= 0 {
		l.MaxQubits = DefaultLimits.MaxQubits
	}
	return l
}

// QAOARunRequest represents a request to build and sample a QAOA ansatz
type QAOARunRequest struct {
	NumQubits  int     `json:"num_qubits"`
	Depth      int     `json:"depth"`
	Gamma      float64 `json:"gamma"`
	Beta       float64 `json:"beta"`
	Shots      int     `json:"shots,omitempty"`
	TTLMinutes int     `json:"ttl_minutes,omitempty"`
}

// QECRunRequest represents a request to run repetition-code rounds
type QECRunRequest struct {
	ErrorKind  string `json:"error_kind"`
	Rounds     int    `json:"rounds,omitempty"`
	Qubit      *int   `json:"qubit,omitempty"` // fixed injection target; random when nil
	TTLMinutes int    `json:"ttl_minutes,omitempty"`
}

// Validate validates a QAOA run request and fills in defaults
func (r *QAOARunRequest) Validate(limits Limits) error {
	limits = limits.withDefaults()

	if r.NumQubits < 2 || r.NumQubits > limits.MaxQubits {
		return fmt.Errorf("%w: got %d, allowed [2, %d]", ErrInvalidNumQubits, r.NumQubits, limits.MaxQubits)
	}

	if r.Depth < 0 || r.Depth > maxDepth {
		return ErrInvalidDepth
	}

	if r.Shots == 0 {
		r.Shots = limits.DefaultShots
	}
	if r.Shots < 1 || r.Shots > limits.MaxShots {
		return fmt.Errorf("%w: got %d, allowed [1, %d]", ErrInvalidShots, r.Shots, limits.MaxShots)
	}

	return validateTTL(&r.TTLMinutes)
}

// Validate validates a QEC run request and fills in defaults
func (r *QECRunRequest) Validate() error {
	if _, err := qec.ParseErrorKind(r.ErrorKind); err != nil {
		return ErrInvalidErrorKind
	}

	if r.Rounds == 0 {
		r.Rounds = 1
	}
	if r.Rounds < 1 || r.Rounds > maxRounds {
		return ErrInvalidRounds
	}

	if r.Qubit != nil && (*r.Qubit < 0 || *r.Qubit > 2) {
		return ErrInvalidQubit
	}

	return validateTTL(&r.TTLMinutes)
}

// validateTTL leaves zero alone so the server default applies
func validateTTL(minutes *int) error {
	if *minutes < 0 || *minutes > 10080 { // Max 7 days
		return ErrInvalidTTL
	}
	return nil
}

// APIError is the sentinel error type of the simulator API
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

var (
	ErrInvalidNumQubits = &APIError{"invalid qubit count"}
	ErrInvalidDepth     = &APIError{"depth must be between 0 and 64"}
	ErrInvalidShots     = &APIError{"invalid shot count"}
	ErrInvalidErrorKind = &APIError{"error kind must be bit-flip or phase-flip"}
	ErrInvalidRounds    = &APIError{"rounds must be between 1 and 1000"}
	ErrInvalidQubit     = &APIError{"injection qubit must be 0, 1 or 2"}
	ErrInvalidTTL       = &APIError{"TTL must be between 1 and 10080 minutes"}
	ErrInvalidRunID     = &APIError{"invalid run ID"}
	ErrRunNotFound      = &APIError{"run not found"}
	ErrNoHistogram      = &APIError{"run has no sampled histogram"}
)
