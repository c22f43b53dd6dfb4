package httpadapter

import (
	"context"
	"log/slog"

	"univote/contexts/governance/election-engine/application/commands"
	"univote/contexts/governance/election-engine/application/queries"
	"univote/contexts/governance/election-engine/domain/entities"
	httptransport "univote/contexts/governance/election-engine/transport/http"
)

type Handler struct {
	Tokens  commands.TokenUseCase
	Ballots commands.BallotUseCase
	Results queries.ResultsUseCase
	Status  queries.VoteStatusUseCase
	Logger  *slog.Logger
}

func (h Handler) IssueTokenHandler(ctx context.Context, voterID string, electionID string) (httptransport.IssueTokenResponse, error) {
	result, err := h.Tokens.IssueToken(ctx, commands.IssueTokenCommand{
		VoterID:    voterID,
		ElectionID: electionID,
	})
	if err != nil {
		return httptransport.IssueTokenResponse{}, err
	}
	return httptransport.IssueTokenResponse{
		Token:     result.Token.Token,
		ExpiresAt: result.Token.ExpiresAt,
		Election:  electionSummary(result.Election),
	}, nil
}

func (h Handler) SubmitVoteHandler(
	ctx context.Context,
	voterID string,
	electionID string,
	req httptransport.SubmitVoteRequest,
) (httptransport.SubmitVoteResponse, error) {
	result, err := h.Ballots.SubmitVote(ctx, commands.SubmitVoteCommand{
		VoterID:     voterID,
		ElectionID:  electionID,
		CandidateID: req.CandidateID,
		Token:       req.Token,
	})
	if err != nil {
		return httptransport.SubmitVoteResponse{}, err
	}
	return httptransport.SubmitVoteResponse{Weight: result.Weight}, nil
}

func (h Handler) ResultsHandler(ctx context.Context, electionID string) (httptransport.ResultsResponse, error) {
	return h.results(ctx, electionID, false)
}

// DetailedResultsHandler adds the school-scope representative/ordinary
// sub-counts to each ranking line.
func (h Handler) DetailedResultsHandler(ctx context.Context, electionID string) (httptransport.ResultsResponse, error) {
	return h.results(ctx, electionID, true)
}

func (h Handler) VoteStatusHandler(ctx context.Context, voterID string, electionID string) (httptransport.VoteStatusResponse, error) {
	voted, err := h.Status.HasVoted(ctx, voterID, electionID)
	if err != nil {
		return httptransport.VoteStatusResponse{}, err
	}
	return httptransport.VoteStatusResponse{HasVoted: voted}, nil
}

func (h Handler) results(ctx context.Context, electionID string, detailed bool) (httptransport.ResultsResponse, error) {
	results, err := h.Results.Results(ctx, electionID)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}

	rankings := make([]httptransport.CandidateStanding, 0, len(results.Rankings))
	for _, result := range results.Rankings {
		standing := httptransport.CandidateStanding{
			CandidateID: result.CandidateID,
			Votes:       result.Votes,
			Score:       result.Score,
			Rank:        result.Rank,
		}
		if detailed && results.Election.Scope == entities.ScopeSchool {
			repVotes := result.RepVotes
			ordinaryVotes := result.OrdinaryVotes
			standing.RepVotes = &repVotes
			standing.OrdinaryVotes = &ordinaryVotes
		}
		rankings = append(rankings, standing)
	}

	response := httptransport.ResultsResponse{
		Election: electionSummary(results.Election),
		Rankings: rankings,
		Participation: httptransport.ParticipationStats{
			TokensIssued: results.Participation.TokensIssued,
			BallotsCast:  results.Participation.BallotsCast,
			Percent:      results.Participation.Percent,
		},
	}
	if results.Round != nil {
		response.RoundNumber = results.Round.Number
	}
	return response, nil
}

func electionSummary(election entities.Election) httptransport.ElectionSummary {
	return httptransport.ElectionSummary{
		ElectionID:       election.ElectionID,
		Scope:            string(election.Scope),
		Phase:            election.Scope.Phase(),
		SchoolID:         election.SchoolID,
		RoomID:           election.RoomID,
		DelegateType:     string(election.DelegateType),
		VotingStart:      election.VotingStart,
		VotingEnd:        election.VotingEnd,
		Active:           election.Active,
		ResultsPolicy:    string(election.ResultsPolicy),
		ResultsPublished: election.ResultsPublished,
	}
}
