package entities

// CandidateResult is one ranked tally line. RepVotes/OrdinaryVotes carry the
// school-scope bucket sub-counts and stay zero for other scopes.
type CandidateResult struct {
	CandidateID   string
	VoterID       string
	Votes         int
	RepVotes      int
	OrdinaryVotes int
	WeightSum     float64
	Score         float64
	Rank          int
}

// Participation reports turnout for one election: issued tokens are the
// denominator, admitted ballots the numerator.
type Participation struct {
	TokensIssued int
	BallotsCast  int
	Percent      float64
}
