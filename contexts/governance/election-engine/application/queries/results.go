package queries

import (
	"context"
	"time"

	"univote/contexts/governance/election-engine/domain/entities"
	"univote/contexts/governance/election-engine/domain/services"
	"univote/contexts/governance/election-engine/ports"
)

// ElectionResults is the full tally read model; the transport layer decides
// whether to expose the school-scope sub-counts.
type ElectionResults struct {
	Election      entities.Election
	Round         *entities.ElectionRound
	Rankings      []entities.CandidateResult
	Participation entities.Participation
}

// ResultsUseCase reads tallies and participation statistics. A read during an
// open voting window is a snapshot; proclamation never uses it.
type ResultsUseCase struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Ballots    ports.BallotRepository
	Tokens     ports.TokenRepository
	Grants     ports.GrantRepository
	Rounds     ports.RoundRepository
}

func (uc ResultsUseCase) Results(ctx context.Context, electionID string) (ElectionResults, error) {
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return ElectionResults{}, err
	}

	candidates, err := uc.Candidates.ListApprovedCandidates(ctx, electionID)
	if err != nil {
		return ElectionResults{}, err
	}

	round, err := uc.resolveRound(ctx, election)
	if err != nil {
		return ElectionResults{}, err
	}
	roundID := ""
	if round != nil {
		roundID = round.RoundID
		candidates = services.FilterRoundCandidates(candidates, *round)
	}

	ballots, err := uc.Ballots.ListBallots(ctx, electionID, roundID)
	if err != nil {
		return ElectionResults{}, err
	}

	repVoters, err := uc.representativeVoters(ctx, election)
	if err != nil {
		return ElectionResults{}, err
	}

	// Runoff participation counts only tokens issued since the round opened;
	// earlier rounds' tokens would inflate the denominator.
	var issuedAfter time.Time
	if round != nil && round.Number > 1 {
		issuedAfter = round.StartsAt
	}
	tokensIssued, err := uc.Tokens.CountTokens(ctx, electionID, issuedAfter)
	if err != nil {
		return ElectionResults{}, err
	}
	participation := entities.Participation{
		TokensIssued: tokensIssued,
		BallotsCast:  len(ballots),
	}
	if tokensIssued > 0 {
		participation.Percent = float64(len(ballots)) / float64(tokensIssued) * 100
	}

	return ElectionResults{
		Election:      election,
		Round:         round,
		Rankings:      services.Tally(election, candidates, ballots, repVoters),
		Participation: participation,
	}, nil
}

// resolveRound picks the round a university tally applies to: the active round
// while voting runs, the highest-numbered round once the election concluded.
func (uc ResultsUseCase) resolveRound(ctx context.Context, election entities.Election) (*entities.ElectionRound, error) {
	if election.Scope != entities.ScopeUniversity {
		return nil, nil
	}
	active, found, err := uc.Rounds.GetActiveRound(ctx, election.ElectionID)
	if err != nil {
		return nil, err
	}
	if found {
		return &active, nil
	}
	rounds, err := uc.Rounds.ListRounds(ctx, election.ElectionID)
	if err != nil {
		return nil, err
	}
	var latest *entities.ElectionRound
	for i := range rounds {
		if latest == nil || rounds[i].Number > latest.Number {
			latest = &rounds[i]
		}
	}
	return latest, nil
}

func (uc ResultsUseCase) representativeVoters(ctx context.Context, election entities.Election) (map[string]bool, error) {
	if election.Scope != entities.ScopeSchool {
		return nil, nil
	}
	grants, err := uc.Grants.ListGrantsByKind(ctx, entities.RoleRoomRepresentative, election.SchoolID)
	if err != nil {
		return nil, err
	}
	voters := make(map[string]bool, len(grants))
	for _, grant := range grants {
		voters[grant.HolderID] = true
	}
	return voters, nil
}
