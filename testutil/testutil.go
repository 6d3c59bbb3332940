// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/chainpoll/cliparse"
	"github.com/danielhkuo/chainpoll/db"
	"github.com/danielhkuo/chainpoll/identity"
	"github.com/danielhkuo/chainpoll/ledger/localledger"
	"github.com/danielhkuo/chainpoll/poll"
)

// Well-known addresses for tests. Mixed-case Creator exercises
// case-insensitive identity matching against the lowercase voters.
const (
	Creator = "0xAbCd000000000000000000000000000000000001"
	Voter1  = "0xabcd000000000000000000000000000000000002"
	Voter2  = "0xabcd000000000000000000000000000000000003"
)

// Epoch is the frozen test clock. Deadlines in tests are offsets from
// it, so lifecycle classification is deterministic.
var Epoch = time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)

// Clock returns Epoch; pass it wherever a now() func is wanted.
func Clock() time.Time { return Epoch }

// SetupTestDB creates a fresh in-memory sqlite database with the full
// schema. Each test gets its own database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, "sqlite"); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// NewTestService wires a poll service over a fresh local ledger with
// the frozen clock.
func NewTestService(t *testing.T) (*poll.Service, *localledger.Ledger) {
	t.Helper()
	conn := SetupTestDB(t)
	led := localledger.New(conn, Clock)
	return poll.NewService(led, led, Clock), led
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3319,
		Backend:      cliparse.BackendLocal,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		SubmitWait:   5 * time.Second,
	}
}

// InsertTestPoll inserts a poll row directly and returns its id.
// active=false models a creator-ended poll; an expired-deadline poll is
// made by passing a deadline before Epoch.
func InsertTestPoll(t *testing.T, conn *sql.DB, creator string, options []string, deadline time.Time, active bool) uint64 {
	t.Helper()

	var id uint64
	err := conn.QueryRow(`
		INSERT INTO poll (creator, title, description, deadline, active, total_votes)
		VALUES ($1, 'Test Poll', 'A test poll', $2, $3, 0)
		RETURNING id
	`, creator, deadline.Unix(), active).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	for i, label := range options {
		_, err := conn.Exec(`
			INSERT INTO poll_option (poll_id, idx, label)
			VALUES ($1, $2, $3)
		`, id, i, label)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
	}
	return id
}

// InsertTestVote inserts a vote row directly and bumps the cached
// total, mirroring what the ledger does on admission.
func InsertTestVote(t *testing.T, conn *sql.DB, pollID uint64, voter string, optionIndex int) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote (poll_id, voter, option_index, cast_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, voter, optionIndex, Epoch.Unix())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
	_, err = conn.Exec(`UPDATE poll SET total_votes = total_votes + 1 WHERE id = $1`, pollID)
	if err != nil {
		t.Fatalf("Failed to bump vote total: %v", err)
	}
}

// MakeRequest creates an HTTP test request. A non-empty voter sets the
// identity header.
func MakeRequest(method, path string, body interface{}, voter string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if voter != "" {
		req.Header.Set(identity.Header, voter)
	}
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
