// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/chainpoll/identity"
	"github.com/danielhkuo/chainpoll/ledger"
	"github.com/danielhkuo/chainpoll/models"
	"github.com/danielhkuo/chainpoll/reconcile"
)

// Service is the poll core: validation, vote admission, lifecycle
// classification, and tally derivation over the ledger ports. The
// clock is injected so deadline math is deterministic in tests.
type Service struct {
	read  ledger.ReadPort
	write ledger.WritePort
	rec   *reconcile.Reconciler
	now   func() time.Time
}

func NewService(read ledger.ReadPort, write ledger.WritePort, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{read: read, write: write, rec: reconcile.New(), now: now}
}

// Validate checks a create request without touching the ledger. The
// first failing rule wins; options are trimmed first and empty entries
// dropped, matching the creation form's behavior. Length bounds count
// characters, not bytes.
func Validate(title, description string, options []string) ([]string, *models.ValidationError) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, &models.ValidationError{Reason: models.ReasonMissingTitle, Message: "title is required"}
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLen {
		return nil, &models.ValidationError{
			Reason:  models.ReasonTitleTooLong,
			Message: fmt.Sprintf("title must be at most %d characters", models.MaxTitleLen),
		}
	}
	if description == "" {
		return nil, &models.ValidationError{Reason: models.ReasonMissingDescription, Message: "description is required"}
	}
	if utf8.RuneCountInString(description) > models.MaxDescriptionLen {
		return nil, &models.ValidationError{
			Reason:  models.ReasonDescriptionTooLong,
			Message: fmt.Sprintf("description must be at most %d characters", models.MaxDescriptionLen),
		}
	}

	trimmed := make([]string, 0, len(options))
	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		trimmed = append(trimmed, opt)
	}
	if len(trimmed) < models.MinOptions {
		return nil, &models.ValidationError{
			Reason:  models.ReasonTooFewOptions,
			Message: fmt.Sprintf("at least %d non-empty options required", models.MinOptions),
		}
	}
	if len(trimmed) > models.MaxOptions {
		return nil, &models.ValidationError{
			Reason:  models.ReasonTooManyOptions,
			Message: fmt.Sprintf("at most %d options allowed", models.MaxOptions),
		}
	}
	for _, opt := range trimmed {
		if utf8.RuneCountInString(opt) > models.MaxOptionLen {
			return nil, &models.ValidationError{
				Reason:  models.ReasonOptionTooLong,
				Message: fmt.Sprintf("each option must be at most %d characters", models.MaxOptionLen),
			}
		}
	}
	return trimmed, nil
}

// Create validates the fields, submits the intent, and waits for the
// ledger to confirm, returning the newly assigned poll id recovered
// from the confirmation events.
func (s *Service) Create(ctx context.Context, creator, title, description string, options []string, duration time.Duration) (uint64, string, error) {
	if creator == "" {
		return 0, "", models.ErrNoIdentity
	}
	trimmed, verr := Validate(title, description, options)
	if verr != nil {
		return 0, "", verr
	}
	if duration <= 0 {
		return 0, "", &models.ValidationError{
			Reason:  models.ReasonInvalidDuration,
			Message: "duration must be positive",
		}
	}

	key := "create:" + creator
	if err := s.rec.Begin(key); err != nil {
		return 0, "", err
	}

	intent := ledger.CreateIntent{
		Creator:     creator,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Options:     trimmed,
		Deadline:    s.now().Add(duration).Unix(),
	}
	h, err := s.write.SubmitCreate(ctx, intent)
	if err != nil {
		s.rec.Finish(key)
		return 0, "", &models.TransportFailure{Op: "submit create", Err: err}
	}
	receipt, err := s.rec.Settle(ctx, key, h)
	if err != nil {
		return 0, h.ID(), err
	}
	id, err := reconcile.ExtractPollID(h.ID(), receipt.Events)
	if err != nil {
		return 0, h.ID(), err
	}
	slog.Info("poll created", "poll_id", id, "creator", creator, "deadline", intent.Deadline)
	return id, h.ID(), nil
}

// Get returns a single poll with its lifecycle classified lazily: a
// poll past its deadline reads as ended no matter what flag the
// snapshot still carries.
func (s *Service) Get(ctx context.Context, id uint64) (models.Poll, error) {
	p, err := s.read.GetPoll(ctx, id)
	if err != nil {
		return models.Poll{}, err
	}
	return s.classify(p), nil
}

// CastVote admits one vote. Preconditions run in a fixed order — the
// first failing one wins — and then the intent is submitted; the
// backend enforces the same rules again under its own serialization,
// so a stale snapshot can still surface AlreadyVoted or PollEnded from
// the receipt.
func (s *Service) CastVote(ctx context.Context, pollID uint64, voter string, optionIndex int) (string, error) {
	if voter == "" {
		return "", models.ErrNoIdentity
	}
	p, err := s.read.GetPoll(ctx, pollID)
	if err != nil {
		return "", err
	}
	if p.EndedAt(s.now()) {
		return "", models.ErrPollEnded
	}
	if optionIndex < 0 || optionIndex >= len(p.Options) {
		return "", models.ErrInvalidOption
	}
	existing, err := s.read.HasVoted(ctx, pollID, voter)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", models.ErrAlreadyVoted
	}

	key := fmt.Sprintf("vote:%d:%s", pollID, voter)
	if err := s.rec.Begin(key); err != nil {
		return "", err
	}

	h, err := s.write.SubmitVote(ctx, pollID, voter, optionIndex)
	if err != nil {
		s.rec.Finish(key)
		return "", &models.TransportFailure{Op: "submit vote", Err: err}
	}
	if _, err := s.rec.Settle(ctx, key, h); err != nil {
		return h.ID(), err
	}
	slog.Info("vote cast", "poll_id", pollID, "voter", voter, "option_index", optionIndex)
	return h.ID(), nil
}

// End transitions a poll Active to Ended. Ending is one-directional
// and creator-only; ending twice fails with AlreadyEnded.
func (s *Service) End(ctx context.Context, pollID uint64, caller string) (string, error) {
	if caller == "" {
		return "", models.ErrNoIdentity
	}
	p, err := s.read.GetPoll(ctx, pollID)
	if err != nil {
		return "", err
	}
	if !identity.Equal(p.Creator, caller) {
		return "", models.ErrUnauthorized
	}
	if !p.Active {
		return "", models.ErrAlreadyEnded
	}

	key := fmt.Sprintf("end:%d", pollID)
	if err := s.rec.Begin(key); err != nil {
		return "", err
	}

	h, err := s.write.SubmitEnd(ctx, pollID, caller)
	if err != nil {
		s.rec.Finish(key)
		return "", &models.TransportFailure{Op: "submit end", Err: err}
	}
	if _, err := s.rec.Settle(ctx, key, h); err != nil {
		return h.ID(), err
	}
	slog.Info("poll ended", "poll_id", pollID, "caller", caller)
	return h.ID(), nil
}

// Results derives the per-option tally, display percentages, and the
// leading-option share for one poll.
func (s *Service) Results(ctx context.Context, pollID uint64) (models.PollResults, error) {
	p, err := s.read.GetPoll(ctx, pollID)
	if err != nil {
		return models.PollResults{}, err
	}
	tally, err := s.read.GetOptionTally(ctx, pollID)
	if err != nil {
		return models.PollResults{}, err
	}
	return models.PollResults{
		Poll:         s.classify(p),
		Tally:        tally,
		Percentages:  Percentages(tally),
		LeadingShare: LeadingShare(tally),
	}, nil
}

// Tally returns the raw per-option counts, recomputed from vote
// records (never the cached totals).
func (s *Service) Tally(ctx context.Context, pollID uint64) ([]int, error) {
	if _, err := s.read.GetPoll(ctx, pollID); err != nil {
		return nil, err
	}
	return s.read.GetOptionTally(ctx, pollID)
}

// HasVoted reports whether voter has a vote on the poll, and which
// option it was for.
func (s *Service) HasVoted(ctx context.Context, pollID uint64, voter string) (*models.VoteRecord, error) {
	if _, err := s.read.GetPoll(ctx, pollID); err != nil {
		return nil, err
	}
	return s.read.HasVoted(ctx, pollID, voter)
}

// VoterRecords lists all votes cast by one identity.
func (s *Service) VoterRecords(ctx context.Context, voter string) ([]models.VoteRecord, error) {
	if voter == "" {
		return nil, models.ErrNoIdentity
	}
	return s.read.VoterRecords(ctx, voter)
}

// Stats summarizes the whole poll set for the overview card.
func (s *Service) Stats(ctx context.Context) (models.StatsResponse, error) {
	polls, err := s.read.ListPolls(ctx)
	if err != nil {
		return models.StatsResponse{}, err
	}
	now := s.now()
	creators := make(map[string]struct{})
	stats := models.StatsResponse{TotalPolls: len(polls)}
	for _, p := range polls {
		if !p.EndedAt(now) {
			stats.ActivePolls++
		}
		stats.TotalVotes += p.TotalVotes
		creators[strings.ToLower(p.Creator)] = struct{}{}
	}
	stats.Creators = len(creators)
	return stats, nil
}

// Now exposes the service clock for collaborators that derive
// time-windowed views (rankings, previews) from the same instant.
func (s *Service) Now() time.Time { return s.now() }

func (s *Service) classify(p models.Poll) models.Poll {
	p.Active = !p.EndedAt(s.now())
	return p
}
