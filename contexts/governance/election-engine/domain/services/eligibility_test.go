package services

import (
	"testing"

	"univote/contexts/governance/election-engine/domain/entities"
)

func roomElection() entities.Election {
	return entities.Election{
		ElectionID: "election-room",
		Scope:      entities.ScopeRoom,
		ProgramID:  "program-1",
		RoomID:     "room-1",
		SchoolID:   "school-1",
		Year:       3,
	}
}

func matchingStudent() entities.StudentProfile {
	return entities.StudentProfile{
		VoterID:   "voter-1",
		ProgramID: "program-1",
		RoomID:    "room-1",
		SchoolID:  "school-1",
		Year:      3,
		Active:    true,
	}
}

func TestCanVoteRoomScope(t *testing.T) {
	election := roomElection()

	if !CanVote(election, matchingStudent()) {
		t.Fatalf("matching student must be allowed to vote")
	}

	inactive := matchingStudent()
	inactive.Active = false
	if CanVote(election, inactive) {
		t.Fatalf("inactive student must be denied")
	}

	otherRoom := matchingStudent()
	otherRoom.RoomID = "room-2"
	if CanVote(election, otherRoom) {
		t.Fatalf("student from another room must be denied")
	}

	otherYear := matchingStudent()
	otherYear.Year = 2
	if CanVote(election, otherYear) {
		t.Fatalf("student from another cohort must be denied")
	}
}

func TestCanVoteSchoolAndUniversityScopes(t *testing.T) {
	school := entities.Election{Scope: entities.ScopeSchool, SchoolID: "school-1"}
	student := matchingStudent()
	if !CanVote(school, student) {
		t.Fatalf("same-school student must be allowed to vote")
	}
	student.SchoolID = "school-2"
	if CanVote(school, student) {
		t.Fatalf("other-school student must be denied")
	}

	university := entities.Election{Scope: entities.ScopeUniversity}
	if !CanVote(university, matchingStudent()) {
		t.Fatalf("any active student may vote at university scope")
	}
}

func TestCanCandidateRoomScope(t *testing.T) {
	election := roomElection()
	if !CanCandidate(election, matchingStudent(), nil) {
		t.Fatalf("matching student may stand in their room election")
	}
	other := matchingStudent()
	other.ProgramID = "program-2"
	if CanCandidate(election, other, nil) {
		t.Fatalf("student outside the room scope must be denied")
	}
}

func TestCanCandidateSchoolRequiresRoomRepresentativeGrant(t *testing.T) {
	election := entities.Election{
		Scope:        entities.ScopeSchool,
		SchoolID:     "school-1",
		Year:         3,
		DelegateType: entities.DelegateFirst,
	}
	student := matchingStudent()

	if CanCandidate(election, student, nil) {
		t.Fatalf("no grant means no school candidacy")
	}

	grant := entities.RoleGrant{
		Kind:     entities.RoleRoomRepresentative,
		SchoolID: "school-1",
		Year:     3,
	}
	if !CanCandidate(election, student, []entities.RoleGrant{grant}) {
		t.Fatalf("room representative of the matching cohort may stand")
	}

	wrongSchool := grant
	wrongSchool.SchoolID = "school-2"
	if CanCandidate(election, student, []entities.RoleGrant{wrongSchool}) {
		t.Fatalf("grant from another school must not qualify")
	}
}

func TestCanCandidateSecondDelegateUsesJuniorCohort(t *testing.T) {
	election := entities.Election{
		Scope:        entities.ScopeSchool,
		SchoolID:     "school-1",
		Year:         3,
		DelegateType: entities.DelegateSecond,
	}
	senior := entities.RoleGrant{Kind: entities.RoleRoomRepresentative, SchoolID: "school-1", Year: 3}
	junior := entities.RoleGrant{Kind: entities.RoleRoomRepresentative, SchoolID: "school-1", Year: 2}
	student := matchingStudent()

	if CanCandidate(election, student, []entities.RoleGrant{senior}) {
		t.Fatalf("senior cohort grant must not qualify for the second delegate seat")
	}
	if !CanCandidate(election, student, []entities.RoleGrant{junior}) {
		t.Fatalf("junior cohort grant must qualify for the second delegate seat")
	}
}

func TestCanCandidateUniversityRequiresSchoolDelegateGrant(t *testing.T) {
	election := entities.Election{
		Scope:        entities.ScopeUniversity,
		DelegateType: entities.DelegateFirst,
	}
	student := matchingStudent()

	if CanCandidate(election, student, nil) {
		t.Fatalf("no grant means no university candidacy")
	}

	matching := entities.RoleGrant{Kind: entities.RoleSchoolDelegate, DelegateType: entities.DelegateFirst}
	if !CanCandidate(election, student, []entities.RoleGrant{matching}) {
		t.Fatalf("school delegate of the matching type may stand")
	}

	otherType := entities.RoleGrant{Kind: entities.RoleSchoolDelegate, DelegateType: entities.DelegateSecond}
	if CanCandidate(election, student, []entities.RoleGrant{otherType}) {
		t.Fatalf("delegate of the other type must be denied")
	}
}

func TestRequiredCohortYear(t *testing.T) {
	first := entities.Election{Year: 3, DelegateType: entities.DelegateFirst}
	if got := RequiredCohortYear(first); got != 3 {
		t.Fatalf("first delegate draws from the election year, got %d", got)
	}
	second := entities.Election{Year: 3, DelegateType: entities.DelegateSecond}
	if got := RequiredCohortYear(second); got != 2 {
		t.Fatalf("second delegate draws from the cohort below, got %d", got)
	}
}
