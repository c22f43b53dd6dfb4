package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	electionengine "univote/contexts/governance/election-engine"
	"univote/contexts/governance/election-engine/domain/entities"
	electionhttp "univote/contexts/governance/election-engine/transport/http"
)

func newTestServer() (*Server, electionengine.Module) {
	module := electionengine.NewInMemoryModule(nil)
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	module.Store.SetNow(base)
	module.Store.SetElection(entities.Election{
		ElectionID:    "election-1",
		Scope:         entities.ScopeUniversity,
		DelegateType:  entities.DelegateFirst,
		VotingStart:   base.Add(-time.Hour),
		VotingEnd:     base.Add(time.Hour),
		Active:        true,
		ResultsPolicy: entities.ResultsImmediate,
	})
	module.Store.SetCandidate(entities.Candidate{
		CandidateID: "cand-a",
		ElectionID:  "election-1",
		VoterID:     "candidate-voter",
		Status:      entities.CandidateApproved,
	})
	module.Store.SetRound(entities.ElectionRound{
		RoundID:      "round-1",
		ElectionID:   "election-1",
		Number:       1,
		CandidateIDs: []string{"cand-a"},
		StartsAt:     base.Add(-time.Hour),
		EndsAt:       base.Add(time.Hour),
		Status:       entities.RoundActive,
	})
	module.Store.SetStudent(entities.StudentProfile{VoterID: "voter-1", Active: true})
	return New(module, nil, ":0"), module
}

func do(server *Server, method string, path string, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	recorder := httptest.NewRecorder()
	server.mux.ServeHTTP(recorder, req)
	return recorder
}

func TestServerTokenVoteResultsFlow(t *testing.T) {
	server, _ := newTestServer()

	issued := do(server, http.MethodPost, "/api/elections/election-1/token", "voter-1", nil)
	if issued.Code != http.StatusCreated {
		t.Fatalf("token issue status %d: %s", issued.Code, issued.Body.String())
	}
	var tokenResp electionhttp.IssueTokenResponse
	if err := json.Unmarshal(issued.Body.Bytes(), &tokenResp); err != nil {
		t.Fatalf("decode token response: %v", err)
	}
	if tokenResp.Token == "" || tokenResp.Election.Phase != 3 {
		t.Fatalf("unexpected token response %+v", tokenResp)
	}

	voted := do(server, http.MethodPost, "/api/elections/election-1/votes", "voter-1", electionhttp.SubmitVoteRequest{
		CandidateID: "cand-a",
		Token:       tokenResp.Token,
	})
	if voted.Code != http.StatusCreated {
		t.Fatalf("vote status %d: %s", voted.Code, voted.Body.String())
	}

	status := do(server, http.MethodGet, "/api/elections/election-1/vote-status", "voter-1", nil)
	if status.Code != http.StatusOK {
		t.Fatalf("vote-status status %d", status.Code)
	}
	var statusResp electionhttp.VoteStatusResponse
	if err := json.Unmarshal(status.Body.Bytes(), &statusResp); err != nil {
		t.Fatalf("decode vote-status: %v", err)
	}
	if !statusResp.HasVoted {
		t.Fatalf("expected has_voted true")
	}

	results := do(server, http.MethodGet, "/api/elections/election-1/results", "", nil)
	if results.Code != http.StatusOK {
		t.Fatalf("results status %d", results.Code)
	}
	var resultsResp electionhttp.ResultsResponse
	if err := json.Unmarshal(results.Body.Bytes(), &resultsResp); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(resultsResp.Rankings) != 1 || resultsResp.Rankings[0].Votes != 1 {
		t.Fatalf("unexpected rankings %+v", resultsResp.Rankings)
	}
}

func TestServerErrorMapping(t *testing.T) {
	server, _ := newTestServer()

	cases := []struct {
		name   string
		method string
		path   string
		userID string
		body   any
		status int
		code   string
	}{
		{"missing user header", http.MethodPost, "/api/elections/election-1/token", "", nil, http.StatusUnauthorized, "missing_user"},
		{"unknown election", http.MethodPost, "/api/elections/election-x/token", "voter-1", nil, http.StatusNotFound, "election_not_found"},
		{"ineligible voter", http.MethodPost, "/api/elections/election-1/token", "voter-unknown", nil, http.StatusForbidden, "not_eligible"},
		{"bad token", http.MethodPost, "/api/elections/election-1/votes", "voter-1", electionhttp.SubmitVoteRequest{CandidateID: "cand-a", Token: "nope"}, http.StatusUnauthorized, "invalid_or_expired_token"},
		{"missing body fields", http.MethodPost, "/api/elections/election-1/votes", "voter-1", electionhttp.SubmitVoteRequest{}, http.StatusBadRequest, "invalid_request"},
	}
	for _, tc := range cases {
		recorder := do(server, tc.method, tc.path, tc.userID, tc.body)
		if recorder.Code != tc.status {
			t.Fatalf("%s: status %d, want %d (%s)", tc.name, recorder.Code, tc.status, recorder.Body.String())
		}
		var errResp electionhttp.ErrorResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &errResp); err != nil {
			t.Fatalf("%s: decode error body: %v", tc.name, err)
		}
		if errResp.Code != tc.code {
			t.Fatalf("%s: code %s, want %s", tc.name, errResp.Code, tc.code)
		}
	}
}

func TestServerStolenTokenForbidden(t *testing.T) {
	server, module := newTestServer()
	module.Store.SetStudent(entities.StudentProfile{VoterID: "voter-2", Active: true})

	issued := do(server, http.MethodPost, "/api/elections/election-1/token", "voter-1", nil)
	var tokenResp electionhttp.IssueTokenResponse
	if err := json.Unmarshal(issued.Body.Bytes(), &tokenResp); err != nil {
		t.Fatalf("decode token response: %v", err)
	}

	stolen := do(server, http.MethodPost, "/api/elections/election-1/votes", "voter-2", electionhttp.SubmitVoteRequest{
		CandidateID: "cand-a",
		Token:       tokenResp.Token,
	})
	if stolen.Code != http.StatusForbidden {
		t.Fatalf("stolen token status %d: %s", stolen.Code, stolen.Body.String())
	}
}
