// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rank

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/chainpoll/models"
)

// now is a Wednesday, so the week window opens two days earlier.
var now = time.Date(2025, time.June, 4, 12, 0, 0, 0, time.UTC)

func mkPoll(id uint64, creator string, votes int, deadline time.Time) models.Poll {
	return models.Poll{
		ID:         id,
		Creator:    creator,
		Title:      fmt.Sprintf("poll %d", id),
		TotalVotes: votes,
		Deadline:   deadline.Unix(),
		Active:     true,
	}
}

func TestParseWindow(t *testing.T) {
	for _, s := range []string{"", "all", "week", "month"} {
		_, err := ParseWindow(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseWindow("fortnight")
	assert.Error(t, err)
}

func TestCreatorsInfluenceOrder(t *testing.T) {
	// One heavily voted poll outranks two lighter ones.
	polls := []models.Poll{
		mkPoll(1, "0xaa", 10, now),
		mkPoll(2, "0xbb", 3, now),
		mkPoll(3, "0xbb", 4, now),
	}

	out := Creators(polls, WindowAll, now, "")
	require.Len(t, out, 2)
	assert.Equal(t, "0xaa", out[0].Address)
	assert.Equal(t, 10, out[0].Influence)
	assert.Equal(t, 1, out[0].PollCount)
	assert.Equal(t, "0xbb", out[1].Address)
	assert.Equal(t, 7, out[1].Influence)
	assert.Equal(t, 2, out[1].PollCount)
}

func TestCreatorsCaseInsensitiveGrouping(t *testing.T) {
	polls := []models.Poll{
		mkPoll(1, "0xAA", 2, now),
		mkPoll(2, "0xaa", 3, now),
	}
	out := Creators(polls, WindowAll, now, "")
	require.Len(t, out, 1)
	assert.Equal(t, "0xaa", out[0].Address)
	assert.Equal(t, 5, out[0].Influence)
}

func TestCreatorsTieBreaks(t *testing.T) {
	polls := []models.Poll{
		mkPoll(1, "0xcc", 5, now),
		mkPoll(2, "0xbb", 2, now),
		mkPoll(3, "0xbb", 3, now),
	}
	// Same influence: more polls wins.
	out := Creators(polls, WindowAll, now, "")
	require.Len(t, out, 2)
	assert.Equal(t, "0xbb", out[0].Address)

	// Same influence and poll count: address ascending.
	polls = []models.Poll{
		mkPoll(1, "0xdd", 5, now),
		mkPoll(2, "0xcc", 5, now),
	}
	out = Creators(polls, WindowAll, now, "")
	require.Len(t, out, 2)
	assert.Equal(t, "0xcc", out[0].Address)
	assert.Equal(t, "0xdd", out[1].Address)
}

func TestCreatorsViewerSeeding(t *testing.T) {
	polls := []models.Poll{mkPoll(1, "0xaa", 10, now)}

	out := Creators(polls, WindowAll, now, "0xEE")
	require.Len(t, out, 2)
	assert.Equal(t, "0xee", out[1].Address)
	assert.Equal(t, 0, out[1].Influence)
	assert.Equal(t, 0, out[1].PollCount)

	// A viewer who already ranks is not duplicated.
	out = Creators(polls, WindowAll, now, "0xAA")
	require.Len(t, out, 1)
	assert.Equal(t, 10, out[0].Influence)
}

func TestCreatorsTopN(t *testing.T) {
	var polls []models.Poll
	for i := 0; i < 15; i++ {
		polls = append(polls, mkPoll(uint64(i+1), fmt.Sprintf("0x%02d", i), i+1, now))
	}
	out := Creators(polls, WindowAll, now, "")
	assert.Len(t, out, TopN)
	assert.Equal(t, 15, out[0].Influence)
}

func TestWeekWindow(t *testing.T) {
	monday := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	// 0xaa sits exactly on the cutoff, 0xbb ended last week, the rest
	// have deadlines this week or later.
	polls := []models.Poll{
		mkPoll(1, "0xaa", 1, monday),
		mkPoll(2, "0xbb", 9, monday.Add(-time.Second)),
		mkPoll(3, "0xcc", 2, monday.AddDate(0, 0, 3)),
		mkPoll(4, "0xdd", 3, monday.AddDate(0, 0, 40)),
	}

	out := Creators(polls, WindowWeek, now, "")
	addrs := make([]string, len(out))
	for i, r := range out {
		addrs[i] = r.Address
	}
	assert.NotContains(t, addrs, "0xbb")
	assert.Contains(t, addrs, "0xaa")
	assert.Contains(t, addrs, "0xcc")
	assert.Contains(t, addrs, "0xdd")
}

func TestMonthWindow(t *testing.T) {
	firstOfJune := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	polls := []models.Poll{
		mkPoll(1, "0xaa", 1, firstOfJune),
		mkPoll(2, "0xbb", 9, firstOfJune.Add(-time.Second)), // May
	}
	out := Creators(polls, WindowMonth, now, "")
	require.Len(t, out, 1)
	assert.Equal(t, "0xaa", out[0].Address)
}

func TestPollsRanking(t *testing.T) {
	polls := []models.Poll{
		mkPoll(1, "0xaa", 2, now),
		mkPoll(2, "0xbb", 7, now),
		mkPoll(3, "0xcc", 7, now),
	}
	out := Polls(polls, WindowAll, now)
	require.Len(t, out, 3)
	// Votes descending, newest id first on ties.
	assert.Equal(t, uint64(3), out[0].ID)
	assert.Equal(t, uint64(2), out[1].ID)
	assert.Equal(t, uint64(1), out[2].ID)
}

func TestPollsRankingDoesNotMutateInput(t *testing.T) {
	polls := []models.Poll{
		mkPoll(1, "0xaa", 1, now),
		mkPoll(2, "0xbb", 9, now),
	}
	_ = Polls(polls, WindowAll, now)
	assert.Equal(t, uint64(1), polls[0].ID)
}

func TestStartOfWeekIsMonday(t *testing.T) {
	monday := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	// A Monday morning, a Sunday night, and a midweek noon all share
	// the same week start.
	days := []time.Time{
		time.Date(2025, time.June, 2, 5, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 8, 23, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 4, 12, 0, 0, 0, time.UTC),
	}
	for _, day := range days {
		assert.Equal(t, monday, startOfWeek(day))
	}
}
