package queries

import (
	"context"
	"strings"

	"univote/contexts/governance/election-engine/domain/entities"
	domainerrors "univote/contexts/governance/election-engine/domain/errors"
	"univote/contexts/governance/election-engine/ports"
)

// VoteStatusUseCase answers "has this voter already voted here"; for university
// elections the answer is scoped to the current runoff round.
type VoteStatusUseCase struct {
	Elections ports.ElectionRepository
	Ballots   ports.BallotRepository
	Rounds    ports.RoundRepository
}

func (uc VoteStatusUseCase) HasVoted(ctx context.Context, voterID string, electionID string) (bool, error) {
	voterID = strings.TrimSpace(voterID)
	electionID = strings.TrimSpace(electionID)
	if voterID == "" || electionID == "" {
		return false, domainerrors.ErrInvalidRequest
	}

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return false, err
	}

	roundID := ""
	if election.Scope == entities.ScopeUniversity {
		round, found, err := uc.Rounds.GetActiveRound(ctx, electionID)
		if err != nil {
			return false, err
		}
		if found {
			roundID = round.RoundID
		} else {
			// Concluded election: answer for the final round.
			rounds, err := uc.Rounds.ListRounds(ctx, electionID)
			if err != nil {
				return false, err
			}
			latest := 0
			for _, round := range rounds {
				if round.Number > latest {
					latest = round.Number
					roundID = round.RoundID
				}
			}
		}
	}

	_, voted, err := uc.Ballots.GetBallotByVoter(ctx, electionID, voterID, roundID)
	if err != nil {
		return false, err
	}
	return voted, nil
}
