package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

const contentTypeMsgpack = "application/msgpack"

// HomeHandler handles requests to the root path
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "Welcome to go-qsim API",
		"version": "1.0.0",
		"status":  "running",
	}

	respondWithJSON(w, http.StatusOK, response)
}

// HealthHandler handles health check requests
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "go-qsim-api",
	}

	respondWithJSON(w, http.StatusOK, health)
}

// RequestLogger logs one line per request with its status and duration
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	log = log.With().Str("component", "http").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration_ms", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("HTTP request")
		})
	}
}

// wantsMsgpack reports whether the client asked for a msgpack body
func wantsMsgpack(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), contentTypeMsgpack)
}

// decodeBody reads a JSON or, by Content-Type, msgpack request body
func decodeBody(r *http.Request, v interface{}) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), contentTypeMsgpack) {
		dec := msgpack.NewDecoder(r.Body)
		dec.SetCustomStructTag("json")
		return dec.Decode(v)
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// respond encodes data as msgpack or JSON depending on the Accept header
func respond(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	if !wantsMsgpack(r) {
		respondWithJSON(w, statusCode, data)
		return
	}

	w.Header().Set("Content-Type", contentTypeMsgpack)
	w.WriteHeader(statusCode)
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	_ = enc.Encode(data)
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	respond(w, r, statusCode, map[string]string{
		"error": message,
	})
}
