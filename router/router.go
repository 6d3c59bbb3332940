// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/chainpoll/cliparse"
	"github.com/danielhkuo/chainpoll/handlers"
	"github.com/danielhkuo/chainpoll/ledger"
	"github.com/danielhkuo/chainpoll/middleware"
	"github.com/danielhkuo/chainpoll/poll"
)

func NewRouter(svc *poll.Service, purger ledger.Purger, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(svc, purger, cfg)
	votingHandler := handlers.NewVotingHandler(svc, cfg)
	resultsHandler := handlers.NewResultsHandler(svc, cfg)
	rankHandler := handlers.NewRankHandler(svc, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll lifecycle
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("POST /polls/{id}/end", middleware.WithLogging(pollHandler.EndPoll))
	mux.HandleFunc("DELETE /polls/{id}", middleware.WithLogging(pollHandler.DeletePoll))

	// Voting operations
	mux.HandleFunc("POST /polls/{id}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /polls/{id}/my-vote", middleware.WithLogging(votingHandler.GetMyVote))
	mux.HandleFunc("GET /my-votes", middleware.WithLogging(votingHandler.GetMyVotes))

	// Results retrieval
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /polls/{id}/tally", middleware.WithLogging(resultsHandler.GetTally))
	mux.HandleFunc("GET /polls/{id}/preview", middleware.WithLogging(resultsHandler.GetPreview))
	mux.HandleFunc("GET /stats", middleware.WithLogging(resultsHandler.GetStats))

	// Leaderboards
	mux.HandleFunc("GET /rank/creators", middleware.WithLogging(rankHandler.GetCreators))
	mux.HandleFunc("GET /rank/polls", middleware.WithLogging(rankHandler.GetPolls))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("chainpoll API v1"))
	})

	return mux
}
