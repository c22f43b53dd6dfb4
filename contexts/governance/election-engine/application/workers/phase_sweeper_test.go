package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"univote/contexts/governance/election-engine/adapters/memory"
	"univote/contexts/governance/election-engine/domain/entities"
)

var sweepBase = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func newSweeper(store *memory.Store) PhaseSweeper {
	return PhaseSweeper{
		Elections:    store,
		Candidates:   store,
		Ballots:      store,
		Grants:       store,
		Rounds:       store,
		Clock:        store,
		IDGen:        store,
		RunoffWindow: 24 * time.Hour,
	}
}

func seedExpiredElection(store *memory.Store, election entities.Election) entities.Election {
	election.VotingStart = sweepBase.Add(-2 * time.Hour)
	election.VotingEnd = sweepBase.Add(-time.Minute)
	election.Active = true
	election.ResultsPolicy = entities.ResultsImmediate
	store.SetElection(election)
	store.SetNow(sweepBase)
	return election
}

func seedApproved(store *memory.Store, electionID string, candidateID string, voterID string) {
	store.SetCandidate(entities.Candidate{
		CandidateID: candidateID,
		ElectionID:  electionID,
		VoterID:     voterID,
		Status:      entities.CandidateApproved,
	})
}

func seedBallots(store *memory.Store, electionID string, roundID string, candidateID string, voters ...string) {
	for _, voter := range voters {
		store.SetBallot(entities.Ballot{
			BallotID:    electionID + "/" + roundID + "/" + voter,
			ElectionID:  electionID,
			RoundID:     roundID,
			VoterID:     voter,
			CandidateID: candidateID,
			Weight:      1.0,
		})
	}
}

func grantsFor(t *testing.T, store *memory.Store, holderID string) []entities.RoleGrant {
	t.Helper()
	grants, err := store.ListGrantsByHolder(context.Background(), holderID)
	if err != nil {
		t.Fatalf("list grants failed: %v", err)
	}
	return grants
}

func TestSweepRoomElectionProclaimsTwoRepresentatives(t *testing.T) {
	store := memory.NewStore()
	seedExpiredElection(store, entities.Election{
		ElectionID: "election-room",
		Scope:      entities.ScopeRoom,
		ProgramID:  "program-1",
		RoomID:     "room-1",
		SchoolID:   "school-1",
		Year:       3,
	})
	seedApproved(store, "election-room", "cand-a", "voter-a")
	seedApproved(store, "election-room", "cand-b", "voter-b")
	seedApproved(store, "election-room", "cand-c", "voter-c")
	seedBallots(store, "election-room", "", "cand-a", "v1", "v2")
	seedBallots(store, "election-room", "", "cand-b", "v3")

	if err := newSweeper(store).RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	election, err := store.GetElection(context.Background(), "election-room")
	if err != nil {
		t.Fatalf("get election failed: %v", err)
	}
	if election.Active {
		t.Fatalf("expired election must be deactivated")
	}
	if !election.ResultsPublished {
		t.Fatalf("immediate results policy must publish on conclusion")
	}

	first := grantsFor(t, store, "voter-a")
	if len(first) != 1 || first[0].Kind != entities.RoleRoomRepresentative || first[0].DelegateType != entities.DelegateFirst {
		t.Fatalf("unexpected leader grant %+v", first)
	}
	second := grantsFor(t, store, "voter-b")
	if len(second) != 1 || second[0].DelegateType != entities.DelegateSecond {
		t.Fatalf("unexpected runner-up grant %+v", second)
	}
	if got := grantsFor(t, store, "voter-c"); len(got) != 0 {
		t.Fatalf("candidate without ballots must not win, got %+v", got)
	}
}

func TestSweepSchoolElectionProclaimsDelegate(t *testing.T) {
	store := memory.NewStore()
	seedExpiredElection(store, entities.Election{
		ElectionID:   "election-school",
		Scope:        entities.ScopeSchool,
		SchoolID:     "school-1",
		Year:         3,
		DelegateType: entities.DelegateFirst,
	})
	seedApproved(store, "election-school", "cand-a", "voter-a")
	seedApproved(store, "election-school", "cand-b", "voter-b")
	store.SetGrant(entities.RoleGrant{
		GrantID:  "grant-rep",
		HolderID: "rep-1",
		Kind:     entities.RoleRoomRepresentative,
		RoomID:   "room-1",
		SchoolID: "school-1",
		Year:     3,
	})
	seedBallots(store, "election-school", "", "cand-a", "rep-1")
	seedBallots(store, "election-school", "", "cand-b", "o1", "o2")

	if err := newSweeper(store).RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	// cand-a holds the whole representative bucket (60%), cand-b the whole
	// ordinary bucket (40%).
	grants := grantsFor(t, store, "voter-a")
	if len(grants) != 1 || grants[0].Kind != entities.RoleSchoolDelegate {
		t.Fatalf("expected school delegate grant for voter-a, got %+v", grants)
	}
	if grants[0].SchoolID != "school-1" || grants[0].DelegateType != entities.DelegateFirst {
		t.Fatalf("grant scope mismatch %+v", grants[0])
	}
	if got := grantsFor(t, store, "voter-b"); len(got) != 0 {
		t.Fatalf("runner-up must not be proclaimed, got %+v", got)
	}
}

func TestSweepUniversityMajorityConcludes(t *testing.T) {
	store := memory.NewStore()
	seedExpiredElection(store, entities.Election{
		ElectionID:   "election-u",
		Scope:        entities.ScopeUniversity,
		Year:         3,
		DelegateType: entities.DelegateFirst,
	})
	seedApproved(store, "election-u", "cand-a", "voter-a")
	seedApproved(store, "election-u", "cand-b", "voter-b")
	store.SetRound(entities.ElectionRound{
		RoundID:      "round-1",
		ElectionID:   "election-u",
		Number:       1,
		CandidateIDs: []string{"cand-a", "cand-b"},
		Status:       entities.RoundActive,
	})
	seedBallots(store, "election-u", "round-1", "cand-a", "v1", "v2", "v3")
	seedBallots(store, "election-u", "round-1", "cand-b", "v4", "v5")

	if err := newSweeper(store).RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	election, _ := store.GetElection(context.Background(), "election-u")
	if election.Active {
		t.Fatalf("majority leader must conclude the election")
	}
	rounds, _ := store.ListRounds(context.Background(), "election-u")
	if len(rounds) != 1 || rounds[0].Status != entities.RoundCompleted {
		t.Fatalf("round must be completed without a successor, got %+v", rounds)
	}
	grants := grantsFor(t, store, "voter-a")
	if len(grants) != 1 || grants[0].Kind != entities.RoleUniversityDelegate {
		t.Fatalf("expected university delegate grant, got %+v", grants)
	}
}

func TestSweepUniversityWithoutMajoritySpawnsRunoff(t *testing.T) {
	store := memory.NewStore()
	seedExpiredElection(store, entities.Election{
		ElectionID:   "election-u",
		Scope:        entities.ScopeUniversity,
		Year:         3,
		DelegateType: entities.DelegateFirst,
	})
	seedApproved(store, "election-u", "cand-a", "voter-a")
	seedApproved(store, "election-u", "cand-b", "voter-b")
	seedApproved(store, "election-u", "cand-c", "voter-c")
	store.SetRound(entities.ElectionRound{
		RoundID:      "round-1",
		ElectionID:   "election-u",
		Number:       1,
		CandidateIDs: []string{"cand-a", "cand-b", "cand-c"},
		Status:       entities.RoundActive,
	})
	seedBallots(store, "election-u", "round-1", "cand-a", "v1", "v2")
	seedBallots(store, "election-u", "round-1", "cand-b", "v3", "v4")
	seedBallots(store, "election-u", "round-1", "cand-c", "v5")

	if err := newSweeper(store).RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	election, _ := store.GetElection(context.Background(), "election-u")
	if !election.Active {
		t.Fatalf("election must stay active for the runoff")
	}
	if !election.VotingEnd.Equal(sweepBase.Add(24 * time.Hour)) {
		t.Fatalf("voting window must extend to the runoff end, got %v", election.VotingEnd)
	}

	rounds, _ := store.ListRounds(context.Background(), "election-u")
	if len(rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(rounds))
	}
	next := rounds[1]
	if next.Number != 2 || next.ParentRoundID != "round-1" || next.Status != entities.RoundActive {
		t.Fatalf("unexpected runoff round %+v", next)
	}
	if len(next.CandidateIDs) != 2 || next.CandidateIDs[0] != "cand-a" || next.CandidateIDs[1] != "cand-b" {
		t.Fatalf("runoff must carry the top two (tie broken by id), got %v", next.CandidateIDs)
	}
	if got := grantsFor(t, store, "voter-a"); len(got) != 0 {
		t.Fatalf("no grant before the runoff concludes, got %+v", got)
	}
}

func TestSweepOpensFirstUniversityRound(t *testing.T) {
	store := memory.NewStore()
	store.SetNow(sweepBase)
	store.SetElection(entities.Election{
		ElectionID:   "election-u",
		Scope:        entities.ScopeUniversity,
		DelegateType: entities.DelegateFirst,
		VotingStart:  sweepBase.Add(-time.Hour),
		VotingEnd:    sweepBase.Add(time.Hour),
		Active:       true,
	})
	seedApproved(store, "election-u", "cand-a", "voter-a")
	seedApproved(store, "election-u", "cand-b", "voter-b")

	if err := newSweeper(store).RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	round, found, err := store.GetActiveRound(context.Background(), "election-u")
	if err != nil || !found {
		t.Fatalf("expected bootstrapped round, found=%v err=%v", found, err)
	}
	if round.Number != 1 || len(round.CandidateIDs) != 2 {
		t.Fatalf("round 1 must carry the full approved set, got %+v", round)
	}

	// A second sweep must not open a duplicate round.
	if err := newSweeper(store).RunOnce(context.Background()); err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	rounds, _ := store.ListRounds(context.Background(), "election-u")
	if len(rounds) != 1 {
		t.Fatalf("expected a single round after repeat sweep, got %d", len(rounds))
	}
}

// failingRounds wraps the store to fail round persistence for one election,
// proving a broken bootstrap does not block round creation for the rest.
type failingRounds struct {
	*memory.Store
	failElectionID string
}

func (f failingRounds) SaveRound(ctx context.Context, round entities.ElectionRound) error {
	if round.ElectionID == f.failElectionID {
		return errors.New("storage unavailable")
	}
	return f.Store.SaveRound(ctx, round)
}

func TestSweepIsolatesRoundBootstrapFailures(t *testing.T) {
	store := memory.NewStore()
	store.SetNow(sweepBase)
	for _, id := range []string{"election-broken", "election-healthy"} {
		store.SetElection(entities.Election{
			ElectionID:   id,
			Scope:        entities.ScopeUniversity,
			DelegateType: entities.DelegateFirst,
			VotingStart:  sweepBase.Add(-time.Hour),
			VotingEnd:    sweepBase.Add(time.Hour),
			Active:       true,
		})
		seedApproved(store, id, id+"-cand", id+"-voter")
	}

	sweeper := newSweeper(store)
	sweeper.Rounds = failingRounds{Store: store, failElectionID: "election-broken"}

	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep must not fail as a whole: %v", err)
	}

	if _, found, _ := store.GetActiveRound(context.Background(), "election-healthy"); !found {
		t.Fatalf("healthy election must still get its first round")
	}
	if _, found, _ := store.GetActiveRound(context.Background(), "election-broken"); found {
		t.Fatalf("broken election must not have a round")
	}
}

// failingElections wraps the store to fail persistence for one election,
// proving a broken transition does not abort the rest of the sweep.
type failingElections struct {
	*memory.Store
	failID string
}

func (f failingElections) SaveElection(ctx context.Context, election entities.Election) error {
	if election.ElectionID == f.failID {
		return errors.New("storage unavailable")
	}
	return f.Store.SaveElection(ctx, election)
}

func TestSweepIsolatesPerElectionFailures(t *testing.T) {
	store := memory.NewStore()
	seedExpiredElection(store, entities.Election{
		ElectionID: "election-broken",
		Scope:      entities.ScopeRoom,
		ProgramID:  "program-1",
		RoomID:     "room-1",
		SchoolID:   "school-1",
		Year:       3,
	})
	seedExpiredElection(store, entities.Election{
		ElectionID: "election-healthy",
		Scope:      entities.ScopeRoom,
		ProgramID:  "program-1",
		RoomID:     "room-2",
		SchoolID:   "school-1",
		Year:       3,
	})
	seedApproved(store, "election-healthy", "cand-a", "voter-a")
	seedBallots(store, "election-healthy", "", "cand-a", "v1")

	sweeper := newSweeper(store)
	sweeper.Elections = failingElections{Store: store, failID: "election-broken"}

	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep must not fail as a whole: %v", err)
	}

	healthy, _ := store.GetElection(context.Background(), "election-healthy")
	if healthy.Active {
		t.Fatalf("healthy election must still conclude")
	}
	broken, _ := store.GetElection(context.Background(), "election-broken")
	if !broken.Active {
		t.Fatalf("broken election stays active for the next sweep")
	}
}
