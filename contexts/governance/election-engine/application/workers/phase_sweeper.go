package workers

import (
	"context"
	"log/slog"
	"time"

	application "univote/contexts/governance/election-engine/application"
	"univote/contexts/governance/election-engine/domain/entities"
	"univote/contexts/governance/election-engine/domain/services"
	"univote/contexts/governance/election-engine/ports"
)

// majorityThreshold is the score a university-round leader must exceed to end
// the election without another runoff.
const majorityThreshold = 50.0

// PhaseSweeper drives the round/phase state machine. Each sweep concludes
// elections whose voting window elapsed while still active: room and school
// phases proclaim their winners and deactivate; university elections either
// conclude on an absolute majority or spawn a top-2 runoff round. A failure
// while transitioning one election never aborts the sweep for the rest.
type PhaseSweeper struct {
	Elections    ports.ElectionRepository
	Candidates   ports.CandidateRepository
	Ballots      ports.BallotRepository
	Grants       ports.GrantRepository
	Rounds       ports.RoundRepository
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	RunoffWindow time.Duration
	Logger       *slog.Logger
}

func (j PhaseSweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	now := j.now()

	if err := j.openFirstRounds(ctx, now); err != nil {
		logger.Error("university round bootstrap failed",
			"event", "election_round_bootstrap_failed",
			"module", "governance/election-engine",
			"layer", "worker",
			"error", err.Error(),
		)
	}

	elections, err := j.Elections.ListExpiredActiveElections(ctx, now)
	if err != nil {
		logger.Error("expired election listing failed",
			"event", "election_sweep_list_failed",
			"module", "governance/election-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, election := range elections {
		if err := j.processElection(ctx, election, now); err != nil {
			logger.Error("election transition failed",
				"event", "election_transition_failed",
				"module", "governance/election-engine",
				"layer", "worker",
				"election_id", election.ElectionID,
				"scope", string(election.Scope),
				"error", err.Error(),
			)
		}
	}
	return nil
}

// openFirstRounds creates round 1 over the full approved-candidate set for
// university elections whose voting window has started without any round yet.
// A failed bootstrap for one election never blocks the others.
func (j PhaseSweeper) openFirstRounds(ctx context.Context, now time.Time) error {
	logger := application.ResolveLogger(j.Logger)
	elections, err := j.Elections.ListActiveElections(ctx, entities.ScopeUniversity)
	if err != nil {
		return err
	}
	for _, election := range elections {
		if now.Before(election.VotingStart) {
			continue
		}
		if err := j.openFirstRound(ctx, election, now); err != nil {
			logger.Error("university round bootstrap failed",
				"event", "election_round_bootstrap_failed",
				"module", "governance/election-engine",
				"layer", "worker",
				"election_id", election.ElectionID,
				"error", err.Error(),
			)
		}
	}
	return nil
}

func (j *PhaseSweeper) openFirstRound(ctx context.Context, election entities.Election, now time.Time) error {
	rounds, err := j.Rounds.ListRounds(ctx, election.ElectionID)
	if err != nil {
		return err
	}
	if len(rounds) > 0 {
		return nil
	}
	candidates, err := j.Candidates.ListApprovedCandidates(ctx, election.ElectionID)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}
	ids := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		ids = append(ids, candidate.CandidateID)
	}
	roundID, err := j.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	if err := j.Rounds.SaveRound(ctx, entities.ElectionRound{
		RoundID:      roundID,
		ElectionID:   election.ElectionID,
		Number:       1,
		CandidateIDs: ids,
		StartsAt:     election.VotingStart,
		EndsAt:       election.VotingEnd,
		Status:       entities.RoundActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return err
	}
	application.ResolveLogger(j.Logger).Info("university round opened",
		"event", "election_round_opened",
		"module", "governance/election-engine",
		"layer", "worker",
		"election_id", election.ElectionID,
		"round_number", 1,
		"candidate_count", len(ids),
	)
	return nil
}

func (j PhaseSweeper) processElection(ctx context.Context, election entities.Election, now time.Time) error {
	switch election.Scope {
	case entities.ScopeRoom:
		return j.concludeRoomElection(ctx, election, now)
	case entities.ScopeSchool:
		return j.concludeSchoolElection(ctx, election, now)
	case entities.ScopeUniversity:
		return j.processUniversityRound(ctx, election, now)
	default:
		return j.deactivate(ctx, election, now)
	}
}

func (j PhaseSweeper) concludeRoomElection(ctx context.Context, election entities.Election, now time.Time) error {
	rankings, err := j.tally(ctx, election, "")
	if err != nil {
		return err
	}

	// Up to two winners: the leader becomes the first representative, the
	// runner-up the second. Candidates without ballots never win.
	types := []entities.DelegateType{entities.DelegateFirst, entities.DelegateSecond}
	for i, result := range rankings {
		if i >= len(types) || result.Votes == 0 {
			break
		}
		if err := j.proclaim(ctx, entities.RoleGrant{
			HolderID:     result.VoterID,
			Kind:         entities.RoleRoomRepresentative,
			ProgramID:    election.ProgramID,
			RoomID:       election.RoomID,
			SchoolID:     election.SchoolID,
			Year:         election.Year,
			DelegateType: types[i],
		}, election, now); err != nil {
			return err
		}
	}
	return j.deactivate(ctx, election, now)
}

func (j PhaseSweeper) concludeSchoolElection(ctx context.Context, election entities.Election, now time.Time) error {
	rankings, err := j.tally(ctx, election, "")
	if err != nil {
		return err
	}
	if len(rankings) > 0 && rankings[0].Votes > 0 {
		if err := j.proclaim(ctx, entities.RoleGrant{
			HolderID:     rankings[0].VoterID,
			Kind:         entities.RoleSchoolDelegate,
			SchoolID:     election.SchoolID,
			Year:         election.Year,
			DelegateType: election.DelegateType,
		}, election, now); err != nil {
			return err
		}
	}
	return j.deactivate(ctx, election, now)
}

func (j PhaseSweeper) processUniversityRound(ctx context.Context, election entities.Election, now time.Time) error {
	logger := application.ResolveLogger(j.Logger)
	round, found, err := j.Rounds.GetActiveRound(ctx, election.ElectionID)
	if !found && err == nil {
		// Window elapsed before any round opened (no approved candidates).
		return j.deactivate(ctx, election, now)
	}
	if err != nil {
		return err
	}

	rankings, err := j.tally(ctx, election, round.RoundID)
	if err != nil {
		return err
	}

	concluded := len(rankings) <= 1 || rankings[0].Score > majorityThreshold
	round.Status = entities.RoundCompleted
	round.UpdatedAt = now

	if concluded {
		if err := j.Rounds.SaveRound(ctx, round); err != nil {
			return err
		}
		if len(rankings) > 0 && rankings[0].Votes > 0 {
			if err := j.proclaim(ctx, entities.RoleGrant{
				HolderID:     rankings[0].VoterID,
				Kind:         entities.RoleUniversityDelegate,
				Year:         election.Year,
				DelegateType: election.DelegateType,
			}, election, now); err != nil {
				return err
			}
		}
		return j.deactivate(ctx, election, now)
	}

	// No absolute majority: runoff between the top two, new tokens required
	// before the new round opens (pre-provisioned outside this engine).
	nextID, err := j.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	next := entities.ElectionRound{
		RoundID:       nextID,
		ElectionID:    election.ElectionID,
		Number:        round.Number + 1,
		ParentRoundID: round.RoundID,
		CandidateIDs:  []string{rankings[0].CandidateID, rankings[1].CandidateID},
		StartsAt:      now,
		EndsAt:        now.Add(j.resolveRunoffWindow()),
		Status:        entities.RoundActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := j.Rounds.SaveRound(ctx, round); err != nil {
		return err
	}
	if err := j.Rounds.SaveRound(ctx, next); err != nil {
		return err
	}

	election.VotingEnd = next.EndsAt
	election.UpdatedAt = now
	if err := j.Elections.SaveElection(ctx, election); err != nil {
		return err
	}
	logger.Info("runoff round created",
		"event", "election_runoff_created",
		"module", "governance/election-engine",
		"layer", "worker",
		"election_id", election.ElectionID,
		"round_number", next.Number,
		"leader_score", rankings[0].Score,
	)
	return nil
}

func (j PhaseSweeper) tally(ctx context.Context, election entities.Election, roundID string) ([]entities.CandidateResult, error) {
	candidates, err := j.Candidates.ListApprovedCandidates(ctx, election.ElectionID)
	if err != nil {
		return nil, err
	}
	if roundID != "" {
		round, found, err := j.Rounds.GetActiveRound(ctx, election.ElectionID)
		if err != nil {
			return nil, err
		}
		if found {
			candidates = services.FilterRoundCandidates(candidates, round)
		}
	}
	ballots, err := j.Ballots.ListBallots(ctx, election.ElectionID, roundID)
	if err != nil {
		return nil, err
	}
	var repVoters map[string]bool
	if election.Scope == entities.ScopeSchool {
		grants, err := j.Grants.ListGrantsByKind(ctx, entities.RoleRoomRepresentative, election.SchoolID)
		if err != nil {
			return nil, err
		}
		repVoters = make(map[string]bool, len(grants))
		for _, grant := range grants {
			repVoters[grant.HolderID] = true
		}
	}
	return services.Tally(election, candidates, ballots, repVoters), nil
}

func (j PhaseSweeper) proclaim(ctx context.Context, grant entities.RoleGrant, election entities.Election, now time.Time) error {
	grantID, err := j.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	grant.GrantID = grantID
	grant.GrantedAt = now
	if err := j.Grants.SaveGrant(ctx, grant); err != nil {
		return err
	}
	application.ResolveLogger(j.Logger).Info("winner proclaimed",
		"event", "election_winner_proclaimed",
		"module", "governance/election-engine",
		"layer", "worker",
		"election_id", election.ElectionID,
		"holder_id", grant.HolderID,
		"kind", string(grant.Kind),
		"delegate_type", string(grant.DelegateType),
	)
	return nil
}

func (j PhaseSweeper) deactivate(ctx context.Context, election entities.Election, now time.Time) error {
	election.Active = false
	election.UpdatedAt = now
	if election.ResultsPolicy == entities.ResultsImmediate {
		election.ResultsPublished = true
	}
	return j.Elections.SaveElection(ctx, election)
}

func (j PhaseSweeper) now() time.Time {
	if j.Clock != nil {
		return j.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (j PhaseSweeper) resolveRunoffWindow() time.Duration {
	if j.RunoffWindow <= 0 {
		return 24 * time.Hour
	}
	return j.RunoffWindow
}
