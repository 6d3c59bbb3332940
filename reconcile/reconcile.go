// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/danielhkuo/chainpoll/ledger"
	"github.com/danielhkuo/chainpoll/models"
)

// settleGrace bounds the detached wait on a submission that outlived
// its request context.
const settleGrace = 5 * time.Minute

// State of a submission as observed by the reconciler.
type State string

const (
	StateSubmitted State = "submitted"
	StateConfirmed State = "confirmed"
	StateFailed    State = "failed"
)

// Reconciler turns fire-and-forget submissions into settled outcomes
// and enforces one outstanding submission per logical action slot.
type Reconciler struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func New() *Reconciler {
	return &Reconciler{inflight: make(map[string]struct{})}
}

// Begin claims an action slot. A second submit of the same logical
// action while one is in flight fails with models.ErrInFlight: the
// ledger may already hold the first attempt, so retrying is never safe.
func (r *Reconciler) Begin(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.inflight[key]; ok {
		return models.ErrInFlight
	}
	r.inflight[key] = struct{}{}
	return nil
}

// Finish releases an action slot.
func (r *Reconciler) Finish(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inflight, key)
}

// Settle awaits the submission and releases its action slot. A
// submission still unresolved when ctx expires keeps the slot: a
// detached waiter holds it until the handle settles or settleGrace
// passes, so retrying the same action fails with ErrInFlight while the
// first attempt may still land.
func (r *Reconciler) Settle(ctx context.Context, key string, h ledger.SubmissionHandle) (ledger.Receipt, error) {
	receipt, err := r.Await(ctx, h)
	if errors.Is(err, models.ErrPending) {
		go func() {
			defer r.Finish(key)
			bg, cancel := context.WithTimeout(context.Background(), settleGrace)
			defer cancel()
			if _, werr := h.Wait(bg); werr != nil {
				slog.Warn("releasing slot for submission that never settled", "submission_id", h.ID())
			}
		}()
		return receipt, err
	}
	r.Finish(key)
	return receipt, err
}

// Await blocks until the submission settles or ctx expires.
//
// Expiry leaves the submission Submitted on the ledger side: the error
// is models.ErrPending and the caller must re-query authoritative state
// rather than retry. Transport errors wrap as TransportFailure. A
// failed receipt maps to its domain error via Receipt.Err.
func (r *Reconciler) Await(ctx context.Context, h ledger.SubmissionHandle) (ledger.Receipt, error) {
	receipt, err := h.Wait(ctx)
	if err != nil {
		if ctx.Err() != nil {
			slog.Warn("submission unresolved, leaving it submitted", "submission_id", h.ID())
			return ledger.Receipt{}, fmt.Errorf("submission %s: %w", h.ID(), models.ErrPending)
		}
		return ledger.Receipt{}, &models.TransportFailure{Op: "await submission " + h.ID(), Err: err}
	}
	if rerr := receipt.Err(); rerr != nil {
		return receipt, rerr
	}
	return receipt, nil
}

// ExtractPollID recovers the new poll's id from a create confirmation
// by scanning the ordered event records for the first poll-created
// record and reading its id attribute. A confirmed receipt without a
// readable id is a ReconciliationError — the poll likely exists, we
// just cannot name it.
func ExtractPollID(submissionID string, events []ledger.EventRecord) (uint64, error) {
	for _, ev := range events {
		if ev.Name != ledger.EventPollCreated {
			continue
		}
		id, ok := pollIDAttr(ev.Attributes["id"])
		if !ok {
			return 0, &models.ReconciliationError{
				SubmissionID: submissionID,
				Message:      "poll-created event has no readable id attribute",
			}
		}
		return id, nil
	}
	return 0, &models.ReconciliationError{
		SubmissionID: submissionID,
		Message:      "no poll-created event in confirmation payload",
	}
}

// pollIDAttr tolerates the id arriving as a JSON number, json.Number,
// decimal string, or native integer depending on the backend's codec.
func pollIDAttr(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case float64:
		if n < 0 || n != float64(uint64(n)) {
			return 0, false
		}
		return uint64(n), true
	case json.Number:
		id, err := strconv.ParseUint(n.String(), 10, 64)
		return id, err == nil
	case string:
		id, err := strconv.ParseUint(n, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}
