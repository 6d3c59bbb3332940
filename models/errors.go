// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

// State-precondition errors. These block the attempted mutation and are
// reported to the caller as-is, with no partial state change.
var (
	ErrNotFound      = errors.New("poll not found")
	ErrUnauthorized  = errors.New("caller is not the poll creator")
	ErrAlreadyEnded  = errors.New("poll already ended")
	ErrPollEnded     = errors.New("poll is not open for voting")
	ErrAlreadyVoted  = errors.New("voter already has a vote on this poll")
	ErrInvalidOption = errors.New("option index out of range")
	ErrNoIdentity    = errors.New("no identity available")
	ErrUnsupported   = errors.New("operation not supported by this backend")

	// ErrPending means a submission timed out while still Submitted.
	// The ledger may yet apply it; the caller must re-query state and
	// must not blindly retry.
	ErrPending = errors.New("submission still pending")

	// ErrInFlight means another submission holds the same action slot.
	ErrInFlight = errors.New("submission already in flight for this action")
)

// ValidationReason categorizes poll-creation validation failures.
type ValidationReason string

const (
	ReasonMissingTitle       ValidationReason = "MISSING_TITLE"
	ReasonTitleTooLong       ValidationReason = "TITLE_TOO_LONG"
	ReasonMissingDescription ValidationReason = "MISSING_DESCRIPTION"
	ReasonDescriptionTooLong ValidationReason = "DESCRIPTION_TOO_LONG"
	ReasonTooFewOptions      ValidationReason = "TOO_FEW_OPTIONS"
	ReasonTooManyOptions     ValidationReason = "TOO_MANY_OPTIONS"
	ReasonOptionTooLong      ValidationReason = "OPTION_TOO_LONG"
	ReasonInvalidDuration    ValidationReason = "INVALID_DURATION"
)

// ValidationError reports why a create request was rejected. Nothing is
// submitted to the ledger when validation fails.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ReconciliationError means the ledger confirmed a submission but the
// confirmation payload did not yield the expected result (e.g. no
// poll-created event to read the new id from). Distinct from a failed
// submission: the mutation may well have been applied.
type ReconciliationError struct {
	SubmissionID string
	Message      string
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed for submission %s: %s", e.SubmissionID, e.Message)
}

// TransportFailure wraps an error from the ledger transport. The caller
// must re-query ledger state before assuming anything about success.
type TransportFailure struct {
	Op  string
	Err error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("ledger transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportFailure) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a TransportFailure.
func IsTransport(err error) bool {
	var tf *TransportFailure
	return errors.As(err, &tf)
}
