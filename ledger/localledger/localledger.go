// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package localledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/chainpoll/ledger"
	"github.com/danielhkuo/chainpoll/models"
)

// Ledger is the SQL-backed adapter. Confirmation is synchronous: the
// submission settles inside Submit* and the handle's Wait returns the
// receipt immediately. The single-vote invariant is delegated to the
// vote table's UNIQUE(poll_id, voter) constraint, so concurrent
// submissions for the same pair can never both succeed.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

func New(conn *sql.DB, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{db: conn, now: now}
}

// handle is a settled submission. Wait never blocks.
type handle struct {
	id      string
	receipt ledger.Receipt
}

func (h *handle) ID() string                                   { return h.id }
func (h *handle) Wait(context.Context) (ledger.Receipt, error) { return h.receipt, nil }

func newHandle(receipt ledger.Receipt) *handle {
	return &handle{id: uuid.NewString(), receipt: receipt}
}

func failed(reason string) *handle {
	return newHandle(ledger.Receipt{Status: ledger.StatusFailed, Reason: reason})
}

// SubmitCreate appends a new poll and its options in one transaction
// and emits a poll-created event carrying the assigned id.
func (l *Ledger) SubmitCreate(ctx context.Context, intent ledger.CreateIntent) (ledger.SubmissionHandle, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	// Identities are case-insensitive; rows store the canonical
	// lowercase form so text comparisons and the vote table's unique
	// constraint see one spelling per identity.
	creator := strings.ToLower(intent.Creator)

	var id uint64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO poll (creator, title, description, deadline, active, total_votes)
		VALUES ($1, $2, $3, $4, $5, 0)
		RETURNING id
	`, creator, intent.Title, intent.Description, intent.Deadline, true).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert poll: %w", err)
	}

	for i, label := range intent.Options {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO poll_option (poll_id, idx, label)
			VALUES ($1, $2, $3)
		`, id, i, label); err != nil {
			return nil, fmt.Errorf("insert option %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}

	slog.Debug("local ledger applied create", "poll_id", id)
	return newHandle(ledger.Receipt{
		Status: ledger.StatusConfirmed,
		Events: []ledger.EventRecord{{
			Name:       ledger.EventPollCreated,
			Attributes: map[string]any{"id": id, "creator": creator},
		}},
	}), nil
}

// SubmitVote appends the vote record and bumps the cached total in the
// same transaction: no observer sees one without the other. The voter
// is stored lowercased, so the unique constraint covers every casing
// of one identity and turns a lost race into an already-voted
// rejection.
func (l *Ledger) SubmitVote(ctx context.Context, pollID uint64, voter string, optionIndex int) (ledger.SubmissionHandle, error) {
	voter = strings.ToLower(voter)
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin vote: %w", err)
	}
	defer tx.Rollback()

	var active bool
	var deadline int64
	err = tx.QueryRowContext(ctx, `SELECT active, deadline FROM poll WHERE id = $1`, pollID).
		Scan(&active, &deadline)
	if err == sql.ErrNoRows {
		return failed(ledger.FailNotFound), nil
	}
	if err != nil {
		return nil, fmt.Errorf("query poll: %w", err)
	}
	if !active || l.now().Unix() > deadline {
		return failed(ledger.FailPollEnded), nil
	}

	var optionCount int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM poll_option WHERE poll_id = $1
	`, pollID).Scan(&optionCount); err != nil {
		return nil, fmt.Errorf("count options: %w", err)
	}
	if optionIndex < 0 || optionIndex >= optionCount {
		return failed(ledger.FailInvalidOption), nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (poll_id, voter, option_index, cast_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, voter, optionIndex, l.now().Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return failed(ledger.FailAlreadyVoted), nil
		}
		return nil, fmt.Errorf("insert vote: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE poll SET total_votes = total_votes + 1 WHERE id = $1
	`, pollID); err != nil {
		return nil, fmt.Errorf("update total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit vote: %w", err)
	}

	return newHandle(ledger.Receipt{
		Status: ledger.StatusConfirmed,
		Events: []ledger.EventRecord{{
			Name:       ledger.EventVoteCast,
			Attributes: map[string]any{"id": pollID, "voter": voter, "option_index": optionIndex},
		}},
	}), nil
}

// SubmitEnd flips active to false, once, creator-only. The transition
// is irreversible; there is no path that sets active back to true.
func (l *Ledger) SubmitEnd(ctx context.Context, pollID uint64, caller string) (ledger.SubmissionHandle, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin end: %w", err)
	}
	defer tx.Rollback()

	var creator string
	var active bool
	err = tx.QueryRowContext(ctx, `SELECT creator, active FROM poll WHERE id = $1`, pollID).
		Scan(&creator, &active)
	if err == sql.ErrNoRows {
		return failed(ledger.FailNotFound), nil
	}
	if err != nil {
		return nil, fmt.Errorf("query poll: %w", err)
	}
	if !strings.EqualFold(creator, caller) {
		return failed(ledger.FailUnauthorized), nil
	}
	if !active {
		return failed(ledger.FailAlreadyEnded), nil
	}

	if _, err := tx.ExecContext(ctx, `UPDATE poll SET active = $1 WHERE id = $2`, false, pollID); err != nil {
		return nil, fmt.Errorf("end poll: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit end: %w", err)
	}

	return newHandle(ledger.Receipt{
		Status: ledger.StatusConfirmed,
		Events: []ledger.EventRecord{{
			Name:       ledger.EventPollEnded,
			Attributes: map[string]any{"id": pollID},
		}},
	}), nil
}

// DeletePoll is the administrative override of the demo backend: it
// purges the poll, its options, and its vote records. Not part of the
// ledger contract; chain history has no equivalent.
func (l *Ledger) DeletePoll(ctx context.Context, pollID uint64) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vote WHERE poll_id = $1`, pollID); err != nil {
		return fmt.Errorf("delete votes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_option WHERE poll_id = $1`, pollID); err != nil {
		return fmt.Errorf("delete options: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM poll WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	slog.Info("poll deleted", "poll_id", pollID)
	return nil
}

// isUniqueViolation matches the constraint error text of both drivers.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
