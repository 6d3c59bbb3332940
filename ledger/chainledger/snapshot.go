// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chainledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/danielhkuo/chainpoll/models"
)

// snapshot caches the full poll list so list/rank reads are pure
// computations over the last confirmed state and never wait on a
// submission. Readers may see data up to maxAge old.
type snapshot struct {
	client *client
	maxAge time.Duration

	mu        sync.RWMutex
	cached    []models.Poll
	fetchedAt time.Time
}

func newSnapshot(cli *client, maxAge time.Duration) *snapshot {
	return &snapshot{client: cli, maxAge: maxAge}
}

// polls serves the cache, refreshing inline when cold or expired. A
// failed refresh with a warm-but-stale cache degrades to stale data
// rather than an error: stale-but-consistent beats unavailable.
func (s *snapshot) polls(ctx context.Context) ([]models.Poll, error) {
	s.mu.RLock()
	cached, fetchedAt := s.cached, s.fetchedAt
	s.mu.RUnlock()

	if cached != nil && time.Since(fetchedAt) <= s.maxAge {
		return cached, nil
	}

	fresh, err := s.refresh(ctx)
	if err != nil {
		if cached != nil {
			slog.Warn("snapshot refresh failed, serving stale polls", "age", time.Since(fetchedAt), "error", err)
			return cached, nil
		}
		return nil, &models.TransportFailure{Op: "list polls", Err: err}
	}
	return fresh, nil
}

func (s *snapshot) refresh(ctx context.Context) ([]models.Poll, error) {
	var out struct {
		Polls []models.Poll `json:"polls"`
	}
	if err := s.client.getJSON(ctx, pathPolls, &out); err != nil {
		return nil, err
	}
	if out.Polls == nil {
		out.Polls = []models.Poll{}
	}
	s.mu.Lock()
	s.cached = out.Polls
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return out.Polls, nil
}

// start schedules background refreshes so interactive reads rarely pay
// for one. Schedule uses cron syntax, e.g. "@every 15s".
func (s *snapshot) start(schedule string) (stop func(), err error) {
	c := cron.New()
	_, err = c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.maxAge)
		defer cancel()
		if _, err := s.refresh(ctx); err != nil {
			slog.Warn("scheduled snapshot refresh failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot refresh schedule %q: %w", schedule, err)
	}
	c.Start()
	return func() { c.Stop() }, nil
}
