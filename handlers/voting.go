// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"github.com/danielhkuo/chainpoll/cliparse"
	"github.com/danielhkuo/chainpoll/identity"
	"github.com/danielhkuo/chainpoll/middleware"
	"github.com/danielhkuo/chainpoll/models"
	"github.com/danielhkuo/chainpoll/poll"
)

type VotingHandler struct {
	svc *poll.Service
	cfg cliparse.Config
}

func NewVotingHandler(svc *poll.Service, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{svc: svc, cfg: cfg}
}

// CastVote handles POST /polls/{id}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, ok := pollIDFromPath(w, r)
	if !ok {
		return
	}

	voter, err := identity.FromRequest(r)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.SubmitWait)
	defer cancel()

	submissionID, err := h.svc.CastVote(ctx, id, voter, req.OptionIndex)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		SubmissionID: submissionID,
		Message:      "Vote recorded",
	})
}

// GetMyVote handles GET /polls/{id}/my-vote
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	id, ok := pollIDFromPath(w, r)
	if !ok {
		return
	}

	voter, err := identity.FromRequest(r)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	record, err := h.svc.HasVoted(r.Context(), id, voter)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	resp := models.HasVotedResponse{HasVoted: record != nil}
	if record != nil {
		resp.OptionIndex = &record.OptionIndex
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetMyVotes handles GET /my-votes
// Returns every vote the caller has cast, across all polls.
func (h *VotingHandler) GetMyVotes(w http.ResponseWriter, r *http.Request) {
	voter, err := identity.FromRequest(r)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	records, err := h.svc.VoterRecords(r.Context(), voter)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}
	if records == nil {
		records = []models.VoteRecord{}
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]any{
		"votes": records,
		"count": len(records),
	})
}
