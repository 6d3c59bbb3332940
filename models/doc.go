// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types and wire types for the
chainpoll API, plus the shared error taxonomy.

# Domain Types

  - Poll: a titled question with 2-10 options, a deadline, and a creator
  - VoteRecord: one identity's single, immutable vote on one poll
  - PollResults: derived tally, percentages, and leading-option share

# Error Taxonomy

Validation and state-precondition failures (ValidationError,
ErrNotFound, ErrUnauthorized, ErrAlreadyEnded, ErrPollEnded,
ErrAlreadyVoted, ErrInvalidOption) are recovered locally: the mutation
is blocked with no partial state change. TransportFailure and
ReconciliationError mean the submission outcome is failed or
inconclusive; callers must re-query ledger state before assuming
anything about success. No failure path collapses into a default value.
*/
package models
