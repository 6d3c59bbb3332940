// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type and X-Voter-Address.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Domain Error Mapping

DomainError translates the core error taxonomy into HTTP statuses in
one place, so handlers never switch on error kinds themselves:

	if err != nil {
		middleware.DomainError(w, err)
		return
	}

Validation and bad options map to 400, missing identity to 401,
creator-only violations to 403, unknown polls to 404, admission
conflicts (already voted, ended, in flight) to 409, unresolved
submissions to 202, unsupported operations to 501, and ledger
failures to 502.
*/
package middleware
