// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/chainpoll/models"
	"github.com/danielhkuo/chainpoll/testutil"
)

func TestGetCreators(t *testing.T) {
	pollHandler, votingHandler, _, rankHandler, _ := setup(t)
	id := createPoll(t, pollHandler)
	castVote(t, votingHandler, id, testutil.Voter1, 0)

	req := testutil.MakeRequest("GET", "/rank/creators", nil, "")
	w := httptest.NewRecorder()
	rankHandler.GetCreators(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.CreatorRankResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Window != "all" {
		t.Errorf("Expected window 'all', got %q", resp.Window)
	}
	if len(resp.Creators) != 1 {
		t.Fatalf("Expected 1 creator, got %d", len(resp.Creators))
	}
	if resp.Creators[0].Address != strings.ToLower(testutil.Creator) {
		t.Errorf("Expected normalized creator address, got %q", resp.Creators[0].Address)
	}
	if resp.Creators[0].Influence != 1 {
		t.Errorf("Expected influence 1, got %d", resp.Creators[0].Influence)
	}
}

func TestGetCreatorsViewerSeeded(t *testing.T) {
	pollHandler, _, _, rankHandler, _ := setup(t)
	createPoll(t, pollHandler)

	req := testutil.MakeRequest("GET", "/rank/creators", nil, testutil.Voter2)
	w := httptest.NewRecorder()
	rankHandler.GetCreators(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.CreatorRankResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Creators) != 2 {
		t.Fatalf("Expected viewer seeded into the board, got %d rows", len(resp.Creators))
	}
	last := resp.Creators[len(resp.Creators)-1]
	if last.Address != testutil.Voter2 || last.Influence != 0 {
		t.Errorf("Expected zero-influence viewer row, got %+v", last)
	}
}

func TestGetCreatorsViewerQueryParam(t *testing.T) {
	pollHandler, _, _, rankHandler, _ := setup(t)
	createPoll(t, pollHandler)

	req := testutil.MakeRequest("GET", "/rank/creators?viewer="+testutil.Voter2, nil, "")
	w := httptest.NewRecorder()
	rankHandler.GetCreators(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.CreatorRankResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Creators) != 2 {
		t.Fatalf("Expected viewer from query param seeded, got %d rows", len(resp.Creators))
	}
}

func TestGetCreatorsBadWindow(t *testing.T) {
	_, _, _, rankHandler, _ := setup(t)

	req := testutil.MakeRequest("GET", "/rank/creators?window=fortnight", nil, "")
	w := httptest.NewRecorder()
	rankHandler.GetCreators(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestGetRankedPolls(t *testing.T) {
	pollHandler, votingHandler, _, rankHandler, _ := setup(t)
	a := createPoll(t, pollHandler)
	b := createPoll(t, pollHandler)
	castVote(t, votingHandler, b, testutil.Voter1, 0)
	castVote(t, votingHandler, b, testutil.Voter2, 1)
	castVote(t, votingHandler, a, testutil.Voter1, 0)

	req := testutil.MakeRequest("GET", "/rank/polls?window=week", nil, "")
	w := httptest.NewRecorder()
	rankHandler.GetPolls(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.PollRankResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Window != "week" {
		t.Errorf("Expected window 'week', got %q", resp.Window)
	}
	if len(resp.Polls) != 2 {
		t.Fatalf("Expected 2 ranked polls, got %d", len(resp.Polls))
	}
	if resp.Polls[0].ID != b {
		t.Errorf("Expected poll %d (2 votes) first, got %d", b, resp.Polls[0].ID)
	}
}
