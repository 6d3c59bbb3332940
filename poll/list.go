// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import (
	"context"
	"sort"
	"strings"

	"github.com/danielhkuo/chainpoll/models"
)

// Status filter values for List.
const (
	FilterAll    = "all"
	FilterActive = "active"
	FilterEnded  = "ended"
)

// Sort orders for List.
const (
	SortLatest = "latest"
	SortVotes  = "votes"
	SortEnding = "ending"
)

// ListOptions mirrors the list page's search, status filter, and sort
// controls. Zero value means: everything, ledger order.
type ListOptions struct {
	Search string
	Status string
	Sort   string
}

// List returns the poll set with lifecycle classified lazily, filtered
// and sorted per opts. Reads are pure computations over the last known
// snapshot; they never wait on a submission.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]models.Poll, error) {
	polls, err := s.read.ListPolls(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]models.Poll, 0, len(polls))
	needle := strings.ToLower(strings.TrimSpace(opts.Search))
	for _, p := range polls {
		p = s.classify(p)
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		switch opts.Status {
		case FilterActive:
			if p.EndedAt(now) {
				continue
			}
		case FilterEnded:
			if !p.EndedAt(now) {
				continue
			}
		}
		out = append(out, p)
	}

	switch opts.Sort {
	case SortLatest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	case SortVotes:
		sort.SliceStable(out, func(i, j int) bool { return out[i].TotalVotes > out[j].TotalVotes })
	case SortEnding:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Deadline < out[j].Deadline })
	}
	return out, nil
}
