// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chainledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/chainpoll/ledger"
	"github.com/danielhkuo/chainpoll/models"
)

// Opts configures the gateway adapter.
type Opts struct {
	// Endpoints are gateway base URLs, tried in rotation.
	Endpoints []string
	// Timeout bounds each gateway request.
	Timeout time.Duration
	// PollInterval is how often a handle re-checks a pending tx.
	PollInterval time.Duration
	// SnapshotMaxAge bounds how stale a served poll list may be before
	// a read refreshes it inline.
	SnapshotMaxAge time.Duration
}

// Ledger implements the read and write ports against a voting-contract
// gateway node. List reads are served from a snapshot cache (stale but
// consistent); targeted reads go to the gateway directly.
type Ledger struct {
	client   *client
	snapshot *snapshot
	interval time.Duration
}

func New(opts Opts) (*Ledger, error) {
	cli, err := newClient(opts.Endpoints, opts.Timeout)
	if err != nil {
		return nil, err
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.SnapshotMaxAge <= 0 {
		opts.SnapshotMaxAge = 30 * time.Second
	}
	return &Ledger{
		client:   cli,
		snapshot: newSnapshot(cli, opts.SnapshotMaxAge),
		interval: opts.PollInterval,
	}, nil
}

// StartRefresher schedules background snapshot refreshes; see
// snapshot.go. Call Stop on the returned cron at shutdown.
func (l *Ledger) StartRefresher(schedule string) (stop func(), err error) {
	return l.snapshot.start(schedule)
}

// ListPolls serves the last confirmed snapshot, refreshing inline only
// when cold or past its max age.
func (l *Ledger) ListPolls(ctx context.Context) ([]models.Poll, error) {
	return l.snapshot.polls(ctx)
}

func (l *Ledger) GetPoll(ctx context.Context, id uint64) (models.Poll, error) {
	var p models.Poll
	if err := l.client.getJSON(ctx, pathPoll(id), &p); err != nil {
		if errors.Is(err, ErrGatewayNotFound) {
			return models.Poll{}, models.ErrNotFound
		}
		return models.Poll{}, &models.TransportFailure{Op: "get poll", Err: err}
	}
	return p, nil
}

func (l *Ledger) GetOptionTally(ctx context.Context, id uint64) ([]int, error) {
	var out struct {
		Tally []int `json:"tally"`
	}
	if err := l.client.getJSON(ctx, pathTally(id), &out); err != nil {
		if errors.Is(err, ErrGatewayNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, &models.TransportFailure{Op: "get tally", Err: err}
	}
	return out.Tally, nil
}

func (l *Ledger) HasVoted(ctx context.Context, id uint64, voter string) (*models.VoteRecord, error) {
	var out struct {
		Voted       bool  `json:"voted"`
		OptionIndex int   `json:"option_index"`
		CastAt      int64 `json:"cast_at"`
	}
	if err := l.client.getJSON(ctx, pathVote(id, voter), &out); err != nil {
		if errors.Is(err, ErrGatewayNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, &models.TransportFailure{Op: "get vote", Err: err}
	}
	if !out.Voted {
		return nil, nil
	}
	return &models.VoteRecord{
		PollID:      id,
		Voter:       voter,
		OptionIndex: out.OptionIndex,
		CastAt:      time.Unix(out.CastAt, 0).UTC(),
	}, nil
}

func (l *Ledger) VoterRecords(ctx context.Context, voter string) ([]models.VoteRecord, error) {
	var out struct {
		Votes []struct {
			PollID      uint64 `json:"poll_id"`
			OptionIndex int    `json:"option_index"`
			CastAt      int64  `json:"cast_at"`
		} `json:"votes"`
	}
	if err := l.client.getJSON(ctx, pathVoterRecords(voter), &out); err != nil {
		return nil, &models.TransportFailure{Op: "get voter records", Err: err}
	}
	records := make([]models.VoteRecord, 0, len(out.Votes))
	for _, v := range out.Votes {
		records = append(records, models.VoteRecord{
			PollID:      v.PollID,
			Voter:       voter,
			OptionIndex: v.OptionIndex,
			CastAt:      time.Unix(v.CastAt, 0).UTC(),
		})
	}
	return records, nil
}

// SubmitCreate hands the create intent to the gateway, which signs and
// broadcasts it. The returned handle settles when the tx does.
func (l *Ledger) SubmitCreate(ctx context.Context, intent ledger.CreateIntent) (ledger.SubmissionHandle, error) {
	body := map[string]any{
		"creator":     intent.Creator,
		"title":       intent.Title,
		"description": intent.Description,
		"options":     intent.Options,
		"deadline":    intent.Deadline,
	}
	return l.submit(ctx, pathTxCreate, body)
}

func (l *Ledger) SubmitVote(ctx context.Context, pollID uint64, voter string, optionIndex int) (ledger.SubmissionHandle, error) {
	body := map[string]any{
		"poll_id":      pollID,
		"voter":        voter,
		"option_index": optionIndex,
	}
	return l.submit(ctx, pathTxCastVote, body)
}

func (l *Ledger) SubmitEnd(ctx context.Context, pollID uint64, caller string) (ledger.SubmissionHandle, error) {
	body := map[string]any{
		"poll_id": pollID,
		"caller":  caller,
	}
	return l.submit(ctx, pathTxEndPoll, body)
}

func (l *Ledger) submit(ctx context.Context, path string, body map[string]any) (ledger.SubmissionHandle, error) {
	var out struct {
		TxHash string `json:"tx_hash"`
	}
	if err := l.client.postJSON(ctx, path, body, &out); err != nil {
		return nil, err
	}
	if out.TxHash == "" {
		return nil, fmt.Errorf("gateway accepted submission on %s but returned no tx hash", path)
	}
	return &txHandle{hash: out.TxHash, client: l.client, interval: l.interval}, nil
}
