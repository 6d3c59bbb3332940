// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the local ledger database. databaseType is "sqlite"
// or "postgres", matching the -t flag.
func Open(databaseType, url string) (*sql.DB, error) {
	var conn *sql.DB
	var err error
	switch databaseType {
	case "sqlite":
		conn, err = sql.Open("sqlite", url)
		if err == nil {
			// modernc sqlite serializes writers per connection; a single
			// pooled connection also keeps :memory: databases coherent.
			conn.SetMaxOpenConns(1)
		}
	case "postgres":
		conn, err = sql.Open("postgres", url)
	default:
		return nil, fmt.Errorf("unknown database type %q (want sqlite or postgres)", databaseType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", databaseType, err)
	}
	return conn, nil
}

// CreateSchema creates all tables for the local ledger.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(conn *sql.DB, databaseType string) error {
	ddl := sqliteSchema
	if databaseType == "postgres" {
		ddl = postgresSchema
	}
	if _, err := conn.Exec(ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// total_votes is a cache kept in step with the vote rows inside the
// same transaction; the vote rows remain the source of truth and the
// tally endpoint recomputes from them.
const sqliteSchema = `
-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    creator TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    deadline INTEGER NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    total_votes INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_poll_creator ON poll(creator);
CREATE INDEX IF NOT EXISTS idx_poll_deadline ON poll(deadline);

-- Options, ordered by idx within a poll
CREATE TABLE IF NOT EXISTS poll_option (
    poll_id INTEGER NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    idx INTEGER NOT NULL,
    label TEXT NOT NULL,
    PRIMARY KEY (poll_id, idx)
);

-- Votes: one per (poll, voter), ever
CREATE TABLE IF NOT EXISTS vote (
    poll_id INTEGER NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    voter TEXT NOT NULL,
    option_index INTEGER NOT NULL,
    cast_at BIGINT NOT NULL,
    UNIQUE (poll_id, voter)
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_id ON vote(poll_id);
CREATE INDEX IF NOT EXISTS idx_vote_voter ON vote(voter);
`

const postgresSchema = `
-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id BIGSERIAL PRIMARY KEY,
    creator TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    deadline BIGINT NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    total_votes INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_poll_creator ON poll(creator);
CREATE INDEX IF NOT EXISTS idx_poll_deadline ON poll(deadline);

-- Options, ordered by idx within a poll
CREATE TABLE IF NOT EXISTS poll_option (
    poll_id BIGINT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    idx INTEGER NOT NULL,
    label TEXT NOT NULL,
    PRIMARY KEY (poll_id, idx)
);

-- Votes: one per (poll, voter), ever
CREATE TABLE IF NOT EXISTS vote (
    poll_id BIGINT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    voter TEXT NOT NULL,
    option_index INTEGER NOT NULL,
    cast_at BIGINT NOT NULL,
    UNIQUE (poll_id, voter)
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_id ON vote(poll_id);
CREATE INDEX IF NOT EXISTS idx_vote_voter ON vote(voter);
`
