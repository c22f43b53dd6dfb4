package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"univote/contexts/governance/election-engine/domain/entities"
	domainerrors "univote/contexts/governance/election-engine/domain/errors"
)

func TestSaveGrantSupersedesPreviousHolder(t *testing.T) {
	store := NewStore()
	scope := entities.RoleGrant{
		Kind:         entities.RoleRoomRepresentative,
		ProgramID:    "program-1",
		RoomID:       "room-1",
		SchoolID:     "school-1",
		Year:         3,
		DelegateType: entities.DelegateFirst,
	}

	old := scope
	old.GrantID = "grant-1"
	old.HolderID = "voter-old"
	if err := store.SaveGrant(context.Background(), old); err != nil {
		t.Fatalf("save grant failed: %v", err)
	}
	replacement := scope
	replacement.GrantID = "grant-2"
	replacement.HolderID = "voter-new"
	if err := store.SaveGrant(context.Background(), replacement); err != nil {
		t.Fatalf("save replacement failed: %v", err)
	}

	if grants, _ := store.ListGrantsByHolder(context.Background(), "voter-old"); len(grants) != 0 {
		t.Fatalf("superseded holder must lose the grant, got %+v", grants)
	}
	grants, _ := store.ListGrantsByKind(context.Background(), entities.RoleRoomRepresentative, "school-1")
	if len(grants) != 1 || grants[0].HolderID != "voter-new" {
		t.Fatalf("expected a single grant for the new holder, got %+v", grants)
	}
}

func TestAdmitBallotConsumesTokenAtomically(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	_ = store.PutToken(context.Background(), entities.VoteToken{
		Token:      "token-1",
		VoterID:    "voter-1",
		ElectionID: "election-1",
		IssuedAt:   now,
		ExpiresAt:  now.Add(time.Hour),
	})

	ballot := entities.Ballot{
		BallotID:    "ballot-1",
		ElectionID:  "election-1",
		VoterID:     "voter-1",
		CandidateID: "cand-a",
		Weight:      1.0,
		CastAt:      now,
	}
	if err := store.AdmitBallot(context.Background(), ballot, "token-1"); err != nil {
		t.Fatalf("admit failed: %v", err)
	}

	token, found, _ := store.GetToken(context.Background(), "election-1", "voter-1")
	if !found || !token.Consumed {
		t.Fatalf("token must be consumed with the admission, got %+v", token)
	}

	dup := ballot
	dup.BallotID = "ballot-2"
	if err := store.AdmitBallot(context.Background(), dup, "token-1"); !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}

	other := ballot
	other.BallotID = "ballot-3"
	other.VoterID = "voter-2"
	if err := store.AdmitBallot(context.Background(), other, "token-1"); !errors.Is(err, domainerrors.ErrInvalidOrExpiredToken) {
		t.Fatalf("a consumed token admits nothing, got %v", err)
	}
}

func TestBallotsAreRoundScoped(t *testing.T) {
	store := NewStore()
	store.SetBallot(entities.Ballot{BallotID: "b1", ElectionID: "e1", RoundID: "r1", VoterID: "v1", CandidateID: "c1"})
	store.SetBallot(entities.Ballot{BallotID: "b2", ElectionID: "e1", RoundID: "r2", VoterID: "v1", CandidateID: "c2"})

	if _, found, _ := store.GetBallotByVoter(context.Background(), "e1", "v1", "r1"); !found {
		t.Fatalf("round 1 ballot missing")
	}
	if _, found, _ := store.GetBallotByVoter(context.Background(), "e1", "v1", "r3"); found {
		t.Fatalf("no ballot expected for round 3")
	}
	ballots, _ := store.ListBallots(context.Background(), "e1", "r2")
	if len(ballots) != 1 || ballots[0].BallotID != "b2" {
		t.Fatalf("unexpected round 2 ballots %+v", ballots)
	}
}
