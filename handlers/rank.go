// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/chainpoll/cliparse"
	"github.com/danielhkuo/chainpoll/identity"
	"github.com/danielhkuo/chainpoll/middleware"
	"github.com/danielhkuo/chainpoll/models"
	"github.com/danielhkuo/chainpoll/poll"
	"github.com/danielhkuo/chainpoll/rank"
)

type RankHandler struct {
	svc *poll.Service
	cfg cliparse.Config
}

func NewRankHandler(svc *poll.Service, cfg cliparse.Config) *RankHandler {
	return &RankHandler{svc: svc, cfg: cfg}
}

// GetCreators handles GET /rank/creators
// Query params: window (all|week|month), viewer (address). The viewer
// — from the query param or the voter address header — is seeded into
// the board even with zero influence, so a new creator can see where
// they stand.
func (h *RankHandler) GetCreators(w http.ResponseWriter, r *http.Request) {
	window, err := rank.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	polls, err := h.svc.List(r.Context(), poll.ListOptions{})
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	// Viewer seeding is optional; an absent or bad value just means no
	// seeded row.
	viewer := ""
	if raw := r.URL.Query().Get("viewer"); raw != "" {
		if addr, err := identity.Normalize(raw); err == nil {
			viewer = addr
		}
	} else if addr, err := identity.FromRequest(r); err == nil {
		viewer = addr
	}

	creators := rank.Creators(polls, window, h.svc.Now(), viewer)
	middleware.JSONResponse(w, http.StatusOK, models.CreatorRankResponse{
		Window:   string(window),
		Creators: creators,
	})
}

// GetPolls handles GET /rank/polls
// Query params: window (all|week|month).
func (h *RankHandler) GetPolls(w http.ResponseWriter, r *http.Request) {
	window, err := rank.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	polls, err := h.svc.List(r.Context(), poll.ListOptions{})
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	ranked := rank.Polls(polls, window, h.svc.Now())
	middleware.JSONResponse(w, http.StatusOK, models.PollRankResponse{
		Window: string(window),
		Polls:  ranked,
	})
}
