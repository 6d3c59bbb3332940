// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"

	"github.com/danielhkuo/chainpoll/models"
)

// Status of a settled submission. A submission that has not settled yet
// has no receipt; there is no third receipt status.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Failure reasons a backend may attach to a failed receipt. These cover
// races the core cannot pre-check (the ledger serializes globally; our
// preconditions run against a possibly stale snapshot).
const (
	FailNotFound      = "not-found"
	FailPollEnded     = "poll-ended"
	FailAlreadyVoted  = "already-voted"
	FailAlreadyEnded  = "already-ended"
	FailInvalidOption = "invalid-option"
	FailUnauthorized  = "unauthorized"
)

// Event names emitted by the voting contract.
const (
	EventPollCreated = "poll-created"
	EventVoteCast    = "vote-cast"
	EventPollEnded   = "poll-ended"
)

// EventRecord is one structured record from a confirmation payload.
// Attributes are kept generic; typed extraction lives with the
// reconciler, away from transport code.
type EventRecord struct {
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes"`
}

// Receipt is the settled outcome of a submission.
type Receipt struct {
	Status Status        `json:"status"`
	Reason string        `json:"reason,omitempty"`
	Events []EventRecord `json:"events,omitempty"`
	TxHash string        `json:"tx_hash,omitempty"`
}

// Err maps a failed receipt's reason onto the domain error taxonomy.
// Returns nil for confirmed receipts.
func (r Receipt) Err() error {
	if r.Status != StatusFailed {
		return nil
	}
	switch r.Reason {
	case FailNotFound:
		return models.ErrNotFound
	case FailPollEnded:
		return models.ErrPollEnded
	case FailAlreadyVoted:
		return models.ErrAlreadyVoted
	case FailAlreadyEnded:
		return models.ErrAlreadyEnded
	case FailInvalidOption:
		return models.ErrInvalidOption
	case FailUnauthorized:
		return models.ErrUnauthorized
	default:
		return &models.TransportFailure{Op: "submission", Err: errReason(r.Reason)}
	}
}

type errReason string

func (e errReason) Error() string { return "ledger rejected submission: " + string(e) }

// SubmissionHandle tracks one in-flight mutating intent. Wait blocks
// until the ledger settles the submission or ctx expires; expiry does
// not cancel the submission, it only stops observing it.
type SubmissionHandle interface {
	ID() string
	Wait(ctx context.Context) (Receipt, error)
}

// CreateIntent is the field set handed to the write port for a new
// poll. The deadline is already absolute; duration math happens in the
// core against its injected clock.
type CreateIntent struct {
	Creator     string
	Title       string
	Description string
	Options     []string
	Deadline    int64
}

// ReadPort reflects the last-confirmed ledger state. It may lag real
// time by a confirmation delay; reads never wait on a submission.
type ReadPort interface {
	ListPolls(ctx context.Context) ([]models.Poll, error)
	GetPoll(ctx context.Context, id uint64) (models.Poll, error)
	GetOptionTally(ctx context.Context, id uint64) ([]int, error)
	HasVoted(ctx context.Context, id uint64, voter string) (*models.VoteRecord, error)
	VoterRecords(ctx context.Context, voter string) ([]models.VoteRecord, error)
}

// WritePort hands mutating intents to the ledger. Submissions are
// fire-and-forget at this layer; settlement is observed via the handle.
type WritePort interface {
	SubmitCreate(ctx context.Context, intent CreateIntent) (SubmissionHandle, error)
	SubmitVote(ctx context.Context, pollID uint64, voter string, optionIndex int) (SubmissionHandle, error)
	SubmitEnd(ctx context.Context, pollID uint64, caller string) (SubmissionHandle, error)
}

// Purger is the administrative delete override. Only the local backend
// implements it; on-chain history is immutable.
type Purger interface {
	DeletePoll(ctx context.Context, id uint64) error
}
