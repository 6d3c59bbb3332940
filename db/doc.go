// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the local ledger's schema and connection setup.

# Tables

  - poll: id, creator, title, description, deadline (unix seconds),
    active flag, total_votes cache, created_at
  - poll_option: (poll_id, idx) ordered option labels, immutable after
    creation
  - vote: (poll_id, voter) unique, option_index, cast_at

# Key Constraints

  - vote.poll_id + vote.voter (unique): the single-vote invariant is
    enforced by the database, not by application-level checks alone
  - poll_option rows are never updated or deleted while the poll exists

Supports sqlite (modernc.org/sqlite) for the ephemeral demo backend and
postgres (lib/pq) for a durable one, selected by the -t flag.
*/
package db
