// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package localledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/chainpoll/models"
)

// ListPolls returns every poll in id (insertion) order with its
// options attached.
func (l *Ledger) ListPolls(ctx context.Context) ([]models.Poll, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, creator, title, description, deadline, active, total_votes
		FROM poll
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	index := map[uint64]int{}
	for rows.Next() {
		var p models.Poll
		if err := rows.Scan(&p.ID, &p.Creator, &p.Title, &p.Description, &p.Deadline, &p.Active, &p.TotalVotes); err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		index[p.ID] = len(polls)
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate polls: %w", err)
	}

	optRows, err := l.db.QueryContext(ctx, `
		SELECT poll_id, label FROM poll_option ORDER BY poll_id, idx
	`)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var pollID uint64
		var label string
		if err := optRows.Scan(&pollID, &label); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		if i, ok := index[pollID]; ok {
			polls[i].Options = append(polls[i].Options, label)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate options: %w", err)
	}
	return polls, nil
}

// GetPoll returns one poll with options, or models.ErrNotFound.
func (l *Ledger) GetPoll(ctx context.Context, id uint64) (models.Poll, error) {
	var p models.Poll
	err := l.db.QueryRowContext(ctx, `
		SELECT id, creator, title, description, deadline, active, total_votes
		FROM poll
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Creator, &p.Title, &p.Description, &p.Deadline, &p.Active, &p.TotalVotes)
	if err == sql.ErrNoRows {
		return models.Poll{}, models.ErrNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("query poll: %w", err)
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT label FROM poll_option WHERE poll_id = $1 ORDER BY idx
	`, id)
	if err != nil {
		return models.Poll{}, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return models.Poll{}, fmt.Errorf("scan option: %w", err)
		}
		p.Options = append(p.Options, label)
	}
	if err := rows.Err(); err != nil {
		return models.Poll{}, fmt.Errorf("iterate options: %w", err)
	}
	return p, nil
}

// GetOptionTally recomputes per-option counts from the vote rows. The
// cached poll.total_votes is never consulted here.
func (l *Ledger) GetOptionTally(ctx context.Context, id uint64) ([]int, error) {
	var optionCount int
	err := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM poll_option WHERE poll_id = $1
	`, id).Scan(&optionCount)
	if err != nil {
		return nil, fmt.Errorf("count options: %w", err)
	}
	if optionCount == 0 {
		return nil, models.ErrNotFound
	}

	tally := make([]int, optionCount)
	rows, err := l.db.QueryContext(ctx, `
		SELECT option_index, COUNT(*) FROM vote WHERE poll_id = $1 GROUP BY option_index
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query tally: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var idx, count int
		if err := rows.Scan(&idx, &count); err != nil {
			return nil, fmt.Errorf("scan tally: %w", err)
		}
		if idx >= 0 && idx < optionCount {
			tally[idx] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tally: %w", err)
	}
	return tally, nil
}

// HasVoted returns the voter's record on the poll, or nil.
func (l *Ledger) HasVoted(ctx context.Context, id uint64, voter string) (*models.VoteRecord, error) {
	var rec models.VoteRecord
	var castAt int64
	err := l.db.QueryRowContext(ctx, `
		SELECT poll_id, voter, option_index, cast_at
		FROM vote
		WHERE poll_id = $1 AND LOWER(voter) = LOWER($2)
	`, id, voter).Scan(&rec.PollID, &rec.Voter, &rec.OptionIndex, &castAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query vote: %w", err)
	}
	rec.CastAt = time.Unix(castAt, 0).UTC()
	return &rec, nil
}

// VoterRecords lists every vote cast by one identity, oldest first.
func (l *Ledger) VoterRecords(ctx context.Context, voter string) ([]models.VoteRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT poll_id, voter, option_index, cast_at
		FROM vote
		WHERE LOWER(voter) = LOWER($1)
		ORDER BY cast_at, poll_id
	`, voter)
	if err != nil {
		return nil, fmt.Errorf("query voter records: %w", err)
	}
	defer rows.Close()

	records := []models.VoteRecord{}
	for rows.Next() {
		var rec models.VoteRecord
		var castAt int64
		if err := rows.Scan(&rec.PollID, &rec.Voter, &rec.OptionIndex, &castAt); err != nil {
			return nil, fmt.Errorf("scan voter record: %w", err)
		}
		rec.CastAt = time.Unix(castAt, 0).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate voter records: %w", err)
	}
	return records, nil
}
