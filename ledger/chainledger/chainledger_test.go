// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chainledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/chainpoll/ledger"
	"github.com/danielhkuo/chainpoll/models"
)

// gateway is a scripted fake gateway node.
func gateway(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestLedger(t *testing.T, srv *httptest.Server) *Ledger {
	t.Helper()
	led, err := New(Opts{
		Endpoints:    []string{srv.URL},
		PollInterval: 5 * time.Millisecond,
	})
	require.NoError(t, err)
	return led
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestDecodeReceipt(t *testing.T) {
	tx := wireTx{
		Hash:   "0xdead",
		Status: txStatusConfirmed,
		Events: []wireEvent{
			{Name: ledger.EventPollCreated, Attributes: map[string]any{"id": float64(4)}},
			{Name: ledger.EventVoteCast},
		},
	}
	receipt := decodeReceipt(tx)
	assert.Equal(t, ledger.StatusConfirmed, receipt.Status)
	assert.Equal(t, "0xdead", receipt.TxHash)
	require.Len(t, receipt.Events, 2)
	assert.Equal(t, ledger.EventPollCreated, receipt.Events[0].Name)

	failed := decodeReceipt(wireTx{Status: txStatusFailed, Reason: ledger.FailAlreadyVoted})
	assert.Equal(t, ledger.StatusFailed, failed.Status)
	assert.ErrorIs(t, failed.Err(), models.ErrAlreadyVoted)
}

func TestGetPoll(t *testing.T) {
	srv := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/polls/7":
			writeJSON(w, models.Poll{ID: 7, Title: "remote", Active: true})
		default:
			http.NotFound(w, r)
		}
	})
	led := newTestLedger(t, srv)

	p, err := led.GetPoll(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "remote", p.Title)

	_, err = led.GetPoll(context.Background(), 8)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetPollTransportFailure(t *testing.T) {
	srv := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	led := newTestLedger(t, srv)

	_, err := led.GetPoll(context.Background(), 7)
	assert.True(t, models.IsTransport(err))
}

func TestSubmitVoteAndWait(t *testing.T) {
	var polled atomic.Int32
	srv := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == pathTxCastVote:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(3), body["poll_id"])
			writeJSON(w, map[string]string{"tx_hash": "0xfeed"})
		case r.URL.Path == "/v1/tx/0xfeed":
			// Pending for the first two polls, then confirmed.
			if polled.Add(1) < 3 {
				writeJSON(w, wireTx{Hash: "0xfeed", Status: txStatusPending})
				return
			}
			writeJSON(w, wireTx{
				Hash:   "0xfeed",
				Status: txStatusConfirmed,
				Events: []wireEvent{{Name: ledger.EventVoteCast}},
			})
		default:
			http.NotFound(w, r)
		}
	})
	led := newTestLedger(t, srv)

	h, err := led.SubmitVote(context.Background(), 3, "0xabc", 1)
	require.NoError(t, err)
	assert.Equal(t, "0xfeed", h.ID())

	receipt, err := h.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusConfirmed, receipt.Status)
	assert.GreaterOrEqual(t, polled.Load(), int32(3))
}

func TestWaitHonorsContext(t *testing.T) {
	srv := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, wireTx{Status: txStatusPending})
	})
	led := newTestLedger(t, srv)

	h := &txHandle{hash: "0x1", client: led.client, interval: 5 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := h.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSnapshotCachesAndServesStale(t *testing.T) {
	var fetches atomic.Int32
	var failing atomic.Bool
	srv := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		fetches.Add(1)
		writeJSON(w, map[string]any{"polls": []models.Poll{{ID: 1, Title: "cached"}}})
	})

	led, err := New(Opts{
		Endpoints:      []string{srv.URL},
		SnapshotMaxAge: time.Hour,
	})
	require.NoError(t, err)

	ctx := context.Background()
	polls, err := led.ListPolls(ctx)
	require.NoError(t, err)
	require.Len(t, polls, 1)

	// Warm cache: no second fetch.
	_, err = led.ListPolls(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load())

	// Expire the cache and take the gateway down: stale data still
	// serves.
	led.snapshot.mu.Lock()
	led.snapshot.fetchedAt = time.Now().Add(-2 * time.Hour)
	led.snapshot.mu.Unlock()
	failing.Store(true)

	polls, err = led.ListPolls(ctx)
	require.NoError(t, err)
	require.Len(t, polls, 1)
	assert.Equal(t, "cached", polls[0].Title)
}

func TestSnapshotColdFailureIsTransport(t *testing.T) {
	srv := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})
	led := newTestLedger(t, srv)

	_, err := led.ListPolls(context.Background())
	assert.True(t, models.IsTransport(err))
}

func TestClientRotatesEndpoints(t *testing.T) {
	dead := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	alive := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.Poll{ID: 1, Title: "up"})
	})

	led, err := New(Opts{Endpoints: []string{dead.URL, alive.URL}})
	require.NoError(t, err)

	p, err := led.GetPoll(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "up", p.Title)
}

func TestSubmitWithoutTxHashFails(t *testing.T) {
	srv := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{})
	})
	led := newTestLedger(t, srv)

	_, err := led.SubmitEnd(context.Background(), 1, "0xabc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tx hash")
}
