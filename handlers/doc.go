// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the chainpoll API.

# Handler Types

Each handler is a struct with service and config dependencies:

  - PollHandler: Poll lifecycle (create, list, get, end, delete)
  - VotingHandler: Vote casting and per-voter lookups
  - ResultsHandler: Tallies, percentages, previews, stats
  - RankHandler: Creator and poll leaderboards

Handlers are created via constructor functions that accept the poll
service and Config:

	pollHandler := handlers.NewPollHandler(svc, purger, cfg)

# Poll Lifecycle

Polls are active from creation until their deadline passes or the
creator ends them early:

	POST   /polls            → CreatePoll (validates, submits, reconciles)
	GET    /polls            → ListPolls (search/status/sort)
	GET    /polls/{id}       → GetPoll
	POST   /polls/{id}/end   → EndPoll (creator only)
	DELETE /polls/{id}       → DeletePoll (creator only, local backend only)

# Voting Flow

Voters identify themselves with the X-Voter-Address header:

	POST /polls/{id}/votes   → CastVote (one vote per identity, final)
	GET  /polls/{id}/my-vote → GetMyVote
	GET  /my-votes           → GetMyVotes

# Results and Rankings

	GET /polls/{id}/results → GetResults (tally + percentages + leading share)
	GET /polls/{id}/tally   → GetTally (raw counts)
	GET /polls/{id}/preview → GetPreview (list card with "ends in" text)
	GET /stats              → GetStats
	GET /rank/creators      → GetCreators (?window=all|week|month)
	GET /rank/polls         → GetPolls (?window=all|week|month)

# Submissions

Mutating operations go through the ledger as submissions. A request
waits up to Config.SubmitWait for settlement; if the wait expires the
response is 202 and the client should re-query state rather than retry
blindly.
*/
package handlers
