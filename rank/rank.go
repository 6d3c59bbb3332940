// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rank

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/danielhkuo/chainpoll/models"
)

// TopN is the leaderboard depth for both rankings.
const TopN = 10

// Window restricts rankings to polls whose deadline falls on or after
// the start of the calendar week (Monday) or month containing now.
type Window string

const (
	WindowAll   Window = "all"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// ParseWindow validates a window query value; empty means all time.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case WindowAll, "":
		return WindowAll, nil
	case WindowWeek:
		return WindowWeek, nil
	case WindowMonth:
		return WindowMonth, nil
	default:
		return "", fmt.Errorf("unknown ranking window %q (want all, week, or month)", s)
	}
}

// Creators builds the creator leaderboard from real polls only: group
// by creator (case-insensitive), influence = sum of totalVotes over the
// creator's polls. Order is influence desc, then poll count desc, then
// address ascending, so output is deterministic. If viewer is non-empty
// and authored nothing in the window, it still appears with zeros.
func Creators(polls []models.Poll, w Window, now time.Time, viewer string) []models.CreatorRank {
	byAddr := make(map[string]*models.CreatorRank)
	for _, p := range filter(polls, w, now) {
		addr := strings.ToLower(p.Creator)
		r, ok := byAddr[addr]
		if !ok {
			r = &models.CreatorRank{Address: addr}
			byAddr[addr] = r
		}
		r.PollCount++
		r.Influence += p.TotalVotes
	}
	if viewer = strings.ToLower(strings.TrimSpace(viewer)); viewer != "" {
		if _, ok := byAddr[viewer]; !ok {
			byAddr[viewer] = &models.CreatorRank{Address: viewer}
		}
	}

	out := make([]models.CreatorRank, 0, len(byAddr))
	for _, r := range byAddr {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Influence != out[j].Influence {
			return out[i].Influence > out[j].Influence
		}
		if out[i].PollCount != out[j].PollCount {
			return out[i].PollCount > out[j].PollCount
		}
		return out[i].Address < out[j].Address
	})
	if len(out) > TopN {
		out = out[:TopN]
	}
	return out
}

// Polls ranks the filtered poll set by totalVotes descending, newest
// id first on ties.
func Polls(polls []models.Poll, w Window, now time.Time) []models.Poll {
	out := filter(polls, w, now)
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalVotes != out[j].TotalVotes {
			return out[i].TotalVotes > out[j].TotalVotes
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > TopN {
		out = out[:TopN]
	}
	return out
}

func filter(polls []models.Poll, w Window, now time.Time) []models.Poll {
	var cutoff int64
	switch w {
	case WindowWeek:
		cutoff = startOfWeek(now).Unix()
	case WindowMonth:
		cutoff = startOfMonth(now).Unix()
	default:
		out := make([]models.Poll, len(polls))
		copy(out, polls)
		return out
	}
	out := make([]models.Poll, 0, len(polls))
	for _, p := range polls {
		if p.Deadline >= cutoff {
			out = append(out, p)
		}
	}
	return out
}

// startOfWeek is midnight UTC on the Monday of the week containing t.
func startOfWeek(t time.Time) time.Time {
	t = t.UTC()
	daysPastMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -daysPastMonday).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
