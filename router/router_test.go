// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/danielhkuo/chainpoll/models"
	"github.com/danielhkuo/chainpoll/testutil"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	svc, led := testutil.NewTestService(t)
	return NewRouter(svc, led, testutil.GetTestConfig())
}

func TestHealthCheck(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected OK body, got %q", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

// TestEndToEndThroughRouter walks create → vote → results over the
// real mux, so path values flow through the registered patterns.
func TestEndToEndThroughRouter(t *testing.T) {
	mux := newTestRouter(t)

	req := testutil.MakeRequest("POST", "/polls", models.CreatePollRequest{
		Title:           "Routing check",
		Description:     "through the mux",
		Options:         []string{"Yes", "No"},
		DurationMinutes: 60,
	}, testutil.Creator)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.CreatePollResponse
	testutil.AssertJSON(t, w, &created)
	idStr := strconv.FormatUint(created.PollID, 10)

	req = testutil.MakeRequest("POST", "/polls/"+idStr+"/votes", models.CastVoteRequest{OptionIndex: 0}, testutil.Voter1)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	req = testutil.MakeRequest("GET", "/polls/"+idStr+"/results", nil, "")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var results models.PollResults
	testutil.AssertJSON(t, w, &results)
	if results.Poll.ID != created.PollID {
		t.Errorf("Expected poll %d, got %d", created.PollID, results.Poll.ID)
	}
	if results.LeadingShare != 100 {
		t.Errorf("Expected leading share 100, got %d", results.LeadingShare)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("PUT", "/polls", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}
