package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "univote/contexts/governance/election-engine/application"
	"univote/contexts/governance/election-engine/domain/entities"
	domainerrors "univote/contexts/governance/election-engine/domain/errors"
	"univote/contexts/governance/election-engine/domain/services"
	"univote/contexts/governance/election-engine/ports"
)

// IssueTokenCommand requests a one-time voting token for (voter, election).
type IssueTokenCommand struct {
	VoterID    string
	ElectionID string
}

type IssueTokenResult struct {
	Token    entities.VoteToken
	Election entities.Election
}

// TokenUseCase is the token ledger: it issues, re-issues and replaces one-time
// voting tokens while guaranteeing at most one live token per (voter, election).
type TokenUseCase struct {
	Elections ports.ElectionRepository
	Tokens    ports.TokenRepository
	Ballots   ports.BallotRepository
	Rounds    ports.RoundRepository
	Grants    ports.GrantRepository
	Students  ports.StudentDirectory
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	TokenTTL  time.Duration
	Logger    *slog.Logger
}

// IssueToken validates eligibility and returns the voter's token for the
// election. Re-requesting while a token is still live returns the existing
// token unchanged; a consumed or expired token is overwritten in place so the
// (voter, election) pair never accumulates rows.
func (uc TokenUseCase) IssueToken(ctx context.Context, cmd IssueTokenCommand) (IssueTokenResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := strings.TrimSpace(cmd.VoterID)
	electionID := strings.TrimSpace(cmd.ElectionID)
	if voterID == "" || electionID == "" {
		return IssueTokenResult{}, domainerrors.ErrInvalidRequest
	}

	now := uc.now()
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return IssueTokenResult{}, err
	}
	if !election.VotingOpen(now) {
		return IssueTokenResult{}, domainerrors.ErrElectionInactive
	}

	student, found, err := uc.Students.GetStudent(ctx, voterID)
	if err != nil {
		return IssueTokenResult{}, err
	}
	if !found || !services.CanVote(election, student) {
		logger.Warn("token issue denied",
			"event", "election_token_issue_denied",
			"module", "governance/election-engine",
			"layer", "application",
			"voter_id", voterID,
			"election_id", electionID,
		)
		return IssueTokenResult{}, domainerrors.ErrNotEligible
	}

	roundID, err := currentRoundID(ctx, uc.Rounds, election)
	if err != nil {
		return IssueTokenResult{}, err
	}
	if _, voted, err := uc.Ballots.GetBallotByVoter(ctx, electionID, voterID, roundID); err != nil {
		return IssueTokenResult{}, err
	} else if voted {
		return IssueTokenResult{}, domainerrors.ErrAlreadyVoted
	}

	existing, found, err := uc.Tokens.GetToken(ctx, electionID, voterID)
	if err != nil {
		return IssueTokenResult{}, err
	}
	if found && existing.Live(now) {
		// Idempotent re-request: same token, same expiry.
		return IssueTokenResult{Token: existing, Election: election}, nil
	}

	value, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return IssueTokenResult{}, err
	}
	token := entities.VoteToken{
		Token:      value,
		VoterID:    voterID,
		ElectionID: electionID,
		Consumed:   false,
		IssuedAt:   now,
		ExpiresAt:  now.Add(uc.resolveTokenTTL()),
	}
	if err := uc.Tokens.PutToken(ctx, token); err != nil {
		return IssueTokenResult{}, err
	}

	logger.Info("vote token issued",
		"event", "election_token_issued",
		"module", "governance/election-engine",
		"layer", "application",
		"voter_id", voterID,
		"election_id", electionID,
		"replaced", found,
		"expires_at", token.ExpiresAt.Format(time.RFC3339),
	)
	return IssueTokenResult{Token: token, Election: election}, nil
}

func (uc TokenUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc TokenUseCase) resolveTokenTTL() time.Duration {
	if uc.TokenTTL <= 0 {
		return time.Hour
	}
	return uc.TokenTTL
}

// currentRoundID resolves the round a ballot or token check applies to: the
// active round for university elections, empty for room and school scopes.
// A university election without an active round is not accepting votes: before
// the sweeper opens round 1 a ballot would be stored with no round and never
// reach any round-scoped tally, and the voter could vote again once the round
// exists.
func currentRoundID(ctx context.Context, rounds ports.RoundRepository, election entities.Election) (string, error) {
	if election.Scope != entities.ScopeUniversity {
		return "", nil
	}
	round, found, err := rounds.GetActiveRound(ctx, election.ElectionID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", domainerrors.ErrElectionInactive
	}
	return round.RoundID, nil
}
