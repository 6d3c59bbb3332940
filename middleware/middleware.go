// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/chainpoll/identity"
	"github.com/danielhkuo/chainpoll/models"
)

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Log request
		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		// Call the next handler
		next(w, r)

		// Log completion
		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// DomainError maps the core error taxonomy onto HTTP statuses and
// writes the response. Every distinguishable error kind keeps its own
// message; nothing is swallowed into a generic 500 unless it truly is
// unknown.
func DomainError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err):
		ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNoIdentity):
		ErrorResponse(w, http.StatusUnauthorized, "connect a wallet address first ("+identity.Header+" header)")
	case errors.Is(err, identity.ErrInvalidAddress):
		ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		ErrorResponse(w, http.StatusNotFound, "Poll not found")
	case errors.Is(err, models.ErrUnauthorized):
		ErrorResponse(w, http.StatusForbidden, "only the poll creator may do that")
	case errors.Is(err, models.ErrAlreadyEnded):
		ErrorResponse(w, http.StatusConflict, "poll already ended")
	case errors.Is(err, models.ErrPollEnded):
		ErrorResponse(w, http.StatusConflict, "poll is not open for voting")
	case errors.Is(err, models.ErrAlreadyVoted):
		ErrorResponse(w, http.StatusConflict, "you already voted on this poll")
	case errors.Is(err, models.ErrInvalidOption):
		ErrorResponse(w, http.StatusBadRequest, "option index out of range")
	case errors.Is(err, models.ErrInFlight):
		ErrorResponse(w, http.StatusConflict, "a submission for this action is already in flight")
	case errors.Is(err, models.ErrPending):
		// Submitted but unresolved: the ledger may still apply it.
		ErrorResponse(w, http.StatusAccepted, "submission still pending; re-query poll state before retrying")
	case errors.Is(err, models.ErrUnsupported):
		ErrorResponse(w, http.StatusNotImplemented, "operation not supported by this backend")
	case models.IsTransport(err):
		slog.Error("ledger transport failure", "error", err)
		ErrorResponse(w, http.StatusBadGateway, "ledger unavailable; re-query state before assuming success")
	default:
		var re *models.ReconciliationError
		if errors.As(err, &re) {
			slog.Error("reconciliation failed", "submission_id", re.SubmissionID, "error", re.Message)
			ErrorResponse(w, http.StatusBadGateway, "submission confirmed but result unreadable; re-query poll list")
			return
		}
		slog.Error("unhandled error", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// CORS middleware allows cross-origin requests from the frontend
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+identity.Header)
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
