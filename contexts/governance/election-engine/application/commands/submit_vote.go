package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "univote/contexts/governance/election-engine/application"
	"univote/contexts/governance/election-engine/domain/entities"
	domainerrors "univote/contexts/governance/election-engine/domain/errors"
	"univote/contexts/governance/election-engine/domain/services"
	"univote/contexts/governance/election-engine/ports"
)

// SubmitVoteCommand carries one ballot submission.
type SubmitVoteCommand struct {
	VoterID     string
	ElectionID  string
	CandidateID string
	Token       string
}

type SubmitVoteResult struct {
	BallotID string
	Weight   float64
}

// BallotUseCase is the ballot admission controller. It validates the token
// chain and admits the ballot exactly once; the vote insert and the token
// consumption commit or fail together inside the repository.
type BallotUseCase struct {
	Elections ports.ElectionRepository
	Candidate ports.CandidateRepository
	Tokens    ports.TokenRepository
	Ballots   ports.BallotRepository
	Rounds    ports.RoundRepository
	Grants    ports.GrantRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc BallotUseCase) SubmitVote(ctx context.Context, cmd SubmitVoteCommand) (SubmitVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := strings.TrimSpace(cmd.VoterID)
	electionID := strings.TrimSpace(cmd.ElectionID)
	candidateID := strings.TrimSpace(cmd.CandidateID)
	tokenValue := strings.TrimSpace(cmd.Token)
	if voterID == "" || electionID == "" || candidateID == "" || tokenValue == "" {
		return SubmitVoteResult{}, domainerrors.ErrInvalidRequest
	}

	now := uc.now()
	token, found, err := uc.Tokens.GetTokenByValue(ctx, tokenValue)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	if !found || token.ElectionID != electionID || !token.Live(now) {
		logger.Warn("ballot rejected on token",
			"event", "election_ballot_token_rejected",
			"module", "governance/election-engine",
			"layer", "application",
			"voter_id", voterID,
			"election_id", electionID,
		)
		return SubmitVoteResult{}, domainerrors.ErrInvalidOrExpiredToken
	}
	if token.VoterID != voterID {
		return SubmitVoteResult{}, domainerrors.ErrTokenNotAuthorized
	}

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		// A token for an unknown election means the contest was withdrawn; the
		// caller sees it as an inactive election, not a lookup failure.
		if errors.Is(err, domainerrors.ErrElectionNotFound) {
			return SubmitVoteResult{}, domainerrors.ErrElectionInactive
		}
		return SubmitVoteResult{}, err
	}
	if !election.VotingOpen(now) {
		return SubmitVoteResult{}, domainerrors.ErrElectionInactive
	}

	roundID, err := currentRoundID(ctx, uc.Rounds, election)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	if _, voted, err := uc.Ballots.GetBallotByVoter(ctx, electionID, voterID, roundID); err != nil {
		return SubmitVoteResult{}, err
	} else if voted {
		return SubmitVoteResult{}, domainerrors.ErrAlreadyVoted
	}

	candidate, err := uc.Candidate.GetCandidate(ctx, candidateID)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	if candidate.ElectionID != electionID || candidate.Status != entities.CandidateApproved {
		return SubmitVoteResult{}, domainerrors.ErrInvalidCandidate
	}
	if roundID != "" {
		round, found, err := uc.Rounds.GetActiveRound(ctx, electionID)
		if err != nil {
			return SubmitVoteResult{}, err
		}
		if found && !round.HasCandidate(candidateID) {
			return SubmitVoteResult{}, domainerrors.ErrInvalidCandidate
		}
	}

	grants, err := uc.Grants.ListGrantsByHolder(ctx, voterID)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	weight := services.BallotWeight(election, grants)

	ballotID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	ballot := entities.Ballot{
		BallotID:    ballotID,
		ElectionID:  electionID,
		RoundID:     roundID,
		VoterID:     voterID,
		CandidateID: candidateID,
		Weight:      weight,
		CastAt:      now,
	}
	if err := uc.Ballots.AdmitBallot(ctx, ballot, token.Token); err != nil {
		return SubmitVoteResult{}, err
	}

	logger.Info("ballot admitted",
		"event", "election_ballot_admitted",
		"module", "governance/election-engine",
		"layer", "application",
		"ballot_id", ballot.BallotID,
		"election_id", electionID,
		"candidate_id", candidateID,
		"round_id", roundID,
		"weight", weight,
	)
	return SubmitVoteResult{BallotID: ballot.BallotID, Weight: weight}, nil
}

func (uc BallotUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
