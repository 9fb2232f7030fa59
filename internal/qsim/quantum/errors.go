package quantum

// SimError is the error type returned by the state-vector engine.
type SimError struct {
	Message string
}

func (e *SimError) Error() string {
	return e.Message
}

var (
	ErrInvalidQubitIndex        = &SimError{"invalid qubit index"}
	ErrInvalidBasisIndex        = &SimError{"invalid basis state index"}
	ErrInvalidCircuitParameters = &SimError{"invalid circuit parameters"}
	ErrNumericDrift             = &SimError{"probability distribution drifted from unit norm"}
	ErrDimensionMismatch        = &SimError{"state vectors have different dimensions"}
)
