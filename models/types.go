// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Validation bounds for poll creation
const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
	MaxOptionLen      = 100
	MinOptions        = 2
	MaxOptions        = 10
)

// Request types

type CreatePollRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Options         []string `json:"options"`
	DurationMinutes int64    `json:"duration_minutes"`
}

type CastVoteRequest struct {
	OptionIndex int `json:"option_index"`
}

// Response types

type CreatePollResponse struct {
	PollID       uint64 `json:"poll_id"`
	SubmissionID string `json:"submission_id"`
}

type CastVoteResponse struct {
	SubmissionID string `json:"submission_id"`
	Message      string `json:"message"`
}

type EndPollResponse struct {
	SubmissionID string `json:"submission_id"`
	EndedAt      int64  `json:"ended_at"`
}

type HasVotedResponse struct {
	HasVoted    bool `json:"has_voted"`
	OptionIndex *int `json:"option_index,omitempty"`
}

type StatsResponse struct {
	TotalPolls  int `json:"total_polls"`
	ActivePolls int `json:"active_polls"`
	TotalVotes  int `json:"total_votes"`
	Creators    int `json:"creators"`
}

// Domain types

// Poll mirrors the on-chain poll record. Options are immutable after
// creation; Deadline is unix seconds. Active is the stored flag only —
// a poll whose deadline has passed is reported as ended regardless of
// the flag (lifecycle is classified lazily on read).
type Poll struct {
	ID          uint64   `json:"id"`
	Creator     string   `json:"creator"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
	Deadline    int64    `json:"deadline"`
	Active      bool     `json:"active"`
	TotalVotes  int      `json:"total_votes"`
}

// EndedAt reports whether the poll is ended as of now, either by the
// stored flag or by its deadline having passed.
func (p Poll) EndedAt(now time.Time) bool {
	return !p.Active || now.Unix() > p.Deadline
}

// VoteRecord is the immutable fact that one identity chose one option
// on one poll. At most one record exists per (poll, voter), ever.
type VoteRecord struct {
	PollID      uint64    `json:"poll_id"`
	Voter       string    `json:"voter"`
	OptionIndex int       `json:"option_index"`
	CastAt      time.Time `json:"cast_at,omitzero"`
}

// PollResults carries the derived tally for presentation. Percentages
// use half-up rounding per option and may not sum to exactly 100;
// that drift is documented behavior, not corrected.
type PollResults struct {
	Poll         Poll  `json:"poll"`
	Tally        []int `json:"tally"`
	Percentages  []int `json:"percentages"`
	LeadingShare int   `json:"leading_share"`
}

// PollPreview is the compact card for list views.
type PollPreview struct {
	ID           uint64 `json:"id"`
	Title        string `json:"title"`
	Creator      string `json:"creator"`
	TotalVotes   int    `json:"total_votes"`
	Active       bool   `json:"active"`
	EndsIn       string `json:"ends_in"`
	LeadingShare int    `json:"leading_share"`
}

// CreatorRank is one leaderboard row. Influence is the sum of
// totalVotes over the creator's polls in the ranking window.
type CreatorRank struct {
	Address   string `json:"address"`
	Influence int    `json:"influence"`
	PollCount int    `json:"poll_count"`
}

type CreatorRankResponse struct {
	Window   string        `json:"window"`
	Creators []CreatorRank `json:"creators"`
}

type PollRankResponse struct {
	Window string `json:"window"`
	Polls  []Poll `json:"polls"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
