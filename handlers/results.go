// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/chainpoll/cliparse"
	"github.com/danielhkuo/chainpoll/middleware"
	"github.com/danielhkuo/chainpoll/models"
	"github.com/danielhkuo/chainpoll/poll"
)

type ResultsHandler struct {
	svc *poll.Service
	cfg cliparse.Config
}

func NewResultsHandler(svc *poll.Service, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{svc: svc, cfg: cfg}
}

// GetResults handles GET /polls/{id}/results
// Tally, per-option percentages (half-up, may not sum to 100), and the
// leading option's share.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id, ok := pollIDFromPath(w, r)
	if !ok {
		return
	}

	results, err := h.svc.Results(r.Context(), id)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetTally handles GET /polls/{id}/tally
// Raw per-option counts, recomputed from vote records.
func (h *ResultsHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	id, ok := pollIDFromPath(w, r)
	if !ok {
		return
	}

	tally, err := h.svc.Tally(r.Context(), id)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	total := 0
	for _, v := range tally {
		total += v
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]any{
		"poll_id": id,
		"tally":   tally,
		"total":   total,
	})
}

// GetPreview handles GET /polls/{id}/preview
// The compact card for list views: leading share plus a human-readable
// deadline ("2 hours from now").
func (h *ResultsHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	id, ok := pollIDFromPath(w, r)
	if !ok {
		return
	}

	results, err := h.svc.Results(r.Context(), id)
	if err != nil {
		middleware.DomainError(w, err)
		return
	}

	p := results.Poll
	endsIn := "ended"
	if p.Active {
		endsIn = humanize.Time(time.Unix(p.Deadline, 0))
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollPreview{
		ID:           p.ID,
		Title:        p.Title,
		Creator:      p.Creator,
		TotalVotes:   p.TotalVotes,
		Active:       p.Active,
		EndsIn:       endsIn,
		LeadingShare: results.LeadingShare,
	})
}

// GetStats handles GET /stats
func (h *ResultsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		middleware.DomainError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, stats)
}
