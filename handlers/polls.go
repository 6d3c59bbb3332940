// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/chainpoll/cliparse"
	"github.com/danielhkuo/chainpoll/identity"
	"github.com/danielhkuo/chainpoll/ledger"
	"github.com/danielhkuo/chainpoll/middleware"
	"github.com/danielhkuo/chainpoll/models"
	"github.com/danielhkuo/chainpoll/poll"
)

type PollHandler struct {
	svc    *poll.Service
	purger ledger.Purger // nil when the backend cannot purge
	cfg    cliparse.Config
}

func NewPollHandler(svc *poll.Service, purger ledger.Purger, cfg cliparse.Config) *PollHandler {
	return &PollHandler{svc: svc, purger: purger, cfg: cfg}
}

// submitCtx bounds how long a request waits for a submission to settle.
func (h *PollHandler) submitCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.cfg.SubmitWait)
}

// pollIDFromPath parses the {id} path segment. Returns 0 and writes the
// error response if the segment is not a valid id.
func pollIDFromPath(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid poll id: "+raw)
		return 0, false
	}
	return id, true
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	creator, err := identity.FromRequest(r)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ctx, cancel := h.submitCtx(r)
	defer cancel()

	duration := time.Duration(req.DurationMinutes) * time.Minute
	pollID, submissionID, err := h.svc.Create(ctx, creator, req.Title, req.Description, req.Options, duration)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:       pollID,
		SubmissionID: submissionID,
	})
}

// ListPolls handles GET /polls
// Query params: search (substring), status (all|active|ended),
// sort (latest|votes|ending).
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := poll.ListOptions{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Sort:   q.Get("sort"),
	}

	polls, err := h.svc.List(r.Context(), opts)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]any{
		"polls": polls,
		"count": len(polls),
	})
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id, ok := pollIDFromPath(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, p)
}

// EndPoll handles POST /polls/{id}/end
func (h *PollHandler) EndPoll(w http.ResponseWriter, r *http.Request) {
	id, ok := pollIDFromPath(w, r)
	if !ok {
		return
	}

	caller, err := identity.FromRequest(r)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	ctx, cancel := h.submitCtx(r)
	defer cancel()

	submissionID, err := h.svc.End(ctx, id, caller)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.EndPollResponse{
		SubmissionID: submissionID,
		EndedAt:      h.svc.Now().Unix(),
	})
}

// DeletePoll handles DELETE /polls/{id}
// Purge is a creator-only maintenance operation; backends that cannot
// erase history (the chain backend) report it as unsupported.
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	id, ok := pollIDFromPath(w, r)
	if !ok {
		return
	}

	caller, err := identity.FromRequest(r)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	if h.purger == nil {
		middleware.DomainError(w, models.ErrUnsupported)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}
	if !identity.Equal(p.Creator, caller) {
		middleware.DomainError(w, models.ErrUnauthorized)
		return
	}

	if err := h.purger.DeletePoll(r.Context(), id); err != nil {
		middleware.DomainError(w, err)
		return
	}

	slog.Info("poll purged", "poll_id", id, "caller", caller)
	w.WriteHeader(http.StatusNoContent)
}
