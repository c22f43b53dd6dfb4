package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ElectionSummary struct {
	ElectionID       string    `json:"election_id"`
	Scope            string    `json:"scope"`
	Phase            int       `json:"phase"`
	SchoolID         string    `json:"school_id,omitempty"`
	RoomID           string    `json:"room_id,omitempty"`
	DelegateType     string    `json:"delegate_type,omitempty"`
	VotingStart      time.Time `json:"voting_start"`
	VotingEnd        time.Time `json:"voting_end"`
	Active           bool      `json:"active"`
	ResultsPolicy    string    `json:"results_policy"`
	ResultsPublished bool      `json:"results_published"`
}

type IssueTokenResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Election  ElectionSummary `json:"election"`
}

type SubmitVoteRequest struct {
	CandidateID string `json:"candidate_id"`
	Token       string `json:"token"`
}

type SubmitVoteResponse struct {
	Weight float64 `json:"weight"`
}

type CandidateStanding struct {
	CandidateID   string  `json:"candidate_id"`
	Votes         int     `json:"votes"`
	Score         float64 `json:"score"`
	Rank          int     `json:"rank"`
	RepVotes      *int    `json:"representative_votes,omitempty"`
	OrdinaryVotes *int    `json:"ordinary_votes,omitempty"`
}

type ParticipationStats struct {
	TokensIssued int     `json:"tokens_issued"`
	BallotsCast  int     `json:"ballots_cast"`
	Percent      float64 `json:"percent"`
}

type ResultsResponse struct {
	Election      ElectionSummary     `json:"election"`
	RoundNumber   int                 `json:"round_number,omitempty"`
	Rankings      []CandidateStanding `json:"rankings"`
	Participation ParticipationStats  `json:"participation"`
}

type VoteStatusResponse struct {
	HasVoted bool `json:"has_voted"`
}
