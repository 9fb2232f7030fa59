package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jaskrrish/go-qsim/internal/models/sim"
	"github.com/jaskrrish/go-qsim/internal/qsim"
	"github.com/jaskrrish/go-qsim/internal/qsim/quantum"
	"github.com/rs/zerolog"
)

// SimHandler manages simulator HTTP requests
type SimHandler struct {
	runs *qsim.RunManager
	log  zerolog.Logger
}

// NewSimHandler creates a handler serving runs from the given manager
func NewSimHandler(runs *qsim.RunManager, log zerolog.Logger) *SimHandler {
	return &SimHandler{
		runs: runs,
		log:  log.With().Str("handler", "sim").Logger(),
	}
}

// RegisterRoutes registers the run endpoints on r, normally mounted under /api/v1
func (h *SimHandler) RegisterRoutes(r chi.Router) {
	r.Post("/qaoa/runs", h.CreateQAOARun)
	r.Post("/qec/runs", h.CreateQECRun)

	r.Get("/runs", h.ListRuns)
	r.Get("/runs/{id}", h.GetRun)
	r.Delete("/runs/{id}", h.DeleteRun)
	r.Get("/runs/{id}/qasm", h.GetRunQASM)
	r.Get("/runs/{id}/chart", h.GetRunChart)
}

// CreateQAOARun handles POST /api/v1/qaoa/runs
func (h *SimHandler) CreateQAOARun(w http.ResponseWriter, r *http.Request) {
	var req sim.QAOARunRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	run, err := h.runs.RunQAOA(&req)
	if err != nil {
		h.respondWithRunError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, sim.RunResponse{Run: run})
}

// CreateQECRun handles POST /api/v1/qec/runs
func (h *SimHandler) CreateQECRun(w http.ResponseWriter, r *http.Request) {
	var req sim.QECRunRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	run, err := h.runs.RunQEC(&req)
	if err != nil {
		h.respondWithRunError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, sim.RunResponse{Run: run})
}

// ListRuns handles GET /api/v1/runs
func (h *SimHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs := h.runs.ListRuns()
	respond(w, r, http.StatusOK, sim.RunListResponse{
		Runs:  runs,
		Count: len(runs),
	})
}

// GetRun handles GET /api/v1/runs/{id}
func (h *SimHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}

	respond(w, r, http.StatusOK, sim.RunResponse{Run: run})
}

// DeleteRun handles DELETE /api/v1/runs/{id}
func (h *SimHandler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, r, http.StatusBadRequest, sim.ErrInvalidRunID.Error())
		return
	}

	if err := h.runs.DeleteRun(runID); err != nil {
		h.respondWithRunError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetRunQASM handles GET /api/v1/runs/{id}/qasm
// Returns the executed circuit as an OpenQASM 2.0 program
func (h *SimHandler) GetRunQASM(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(run.QASM))
}

// GetRunChart handles GET /api/v1/runs/{id}/chart
// Renders the sampled histogram of a QAOA run as an HTML bar chart
func (h *SimHandler) GetRunChart(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}

	bar, err := histogramChart(run)
	if err != nil {
		h.respondWithRunError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := bar.Render(w); err != nil {
		h.log.Error().Err(err).Str("run_id", run.RunID.String()).Msg("Failed to render chart")
	}
}

func (h *SimHandler) lookupRun(w http.ResponseWriter, r *http.Request) (*sim.Run, bool) {
	runID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, r, http.StatusBadRequest, sim.ErrInvalidRunID.Error())
		return nil, false
	}

	run, err := h.runs.GetRun(runID)
	if err != nil {
		h.respondWithRunError(w, r, err)
		return nil, false
	}
	return run, true
}

func (h *SimHandler) respondWithRunError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	} else {
		h.log.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}
	respondWithError(w, r, status, err.Error())
}

// statusForError maps API and simulation errors to HTTP status codes
func statusForError(err error) int {
	var apiErr *sim.APIError
	var simErr *quantum.SimError

	switch {
	case errors.Is(err, sim.ErrRunNotFound), errors.Is(err, sim.ErrNoHistogram):
		return http.StatusNotFound
	case errors.As(err, &apiErr):
		return http.StatusBadRequest
	case errors.As(err, &simErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
