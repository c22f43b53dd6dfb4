package services

import "univote/contexts/governance/election-engine/domain/entities"

// Eligibility rules are pure reads over the voter's profile and role grants.
// Any missing profile data denies instead of erroring.

// CanCandidate reports whether the voter may stand in the election.
func CanCandidate(election entities.Election, student entities.StudentProfile, grants []entities.RoleGrant) bool {
	if !student.Active {
		return false
	}
	switch election.Scope {
	case entities.ScopeRoom:
		return matchesRoomScope(election, student)
	case entities.ScopeSchool:
		return holdsRoomRepresentative(election, grants)
	case entities.ScopeUniversity:
		return holdsSchoolDelegate(election, grants)
	default:
		return false
	}
}

// CanVote reports whether the voter may cast a ballot in the election. Room and
// school voting is open to every active student inside the matching scope;
// university voting is open to all active students.
func CanVote(election entities.Election, student entities.StudentProfile) bool {
	if !student.Active {
		return false
	}
	switch election.Scope {
	case entities.ScopeRoom:
		return matchesRoomScope(election, student)
	case entities.ScopeSchool:
		return student.SchoolID != "" && student.SchoolID == election.SchoolID
	case entities.ScopeUniversity:
		return true
	default:
		return false
	}
}

func matchesRoomScope(election entities.Election, student entities.StudentProfile) bool {
	return student.ProgramID != "" && student.ProgramID == election.ProgramID &&
		student.RoomID != "" && student.RoomID == election.RoomID &&
		student.SchoolID != "" && student.SchoolID == election.SchoolID &&
		student.Year == election.Year
}

// holdsRoomRepresentative checks for a room-representative grant in the
// election's school from the cohort the delegate type asks for: the senior
// cohort stands for the first delegate, the cohort below it for the second.
func holdsRoomRepresentative(election entities.Election, grants []entities.RoleGrant) bool {
	required := RequiredCohortYear(election)
	for _, grant := range grants {
		if grant.Kind != entities.RoleRoomRepresentative {
			continue
		}
		if grant.SchoolID != election.SchoolID {
			continue
		}
		if grant.Year == required {
			return true
		}
	}
	return false
}

func holdsSchoolDelegate(election entities.Election, grants []entities.RoleGrant) bool {
	for _, grant := range grants {
		if grant.Kind != entities.RoleSchoolDelegate {
			continue
		}
		if grant.DelegateType == election.DelegateType {
			return true
		}
	}
	return false
}

// RequiredCohortYear maps a school election's delegate type to the study year
// whose room representatives may stand for it.
func RequiredCohortYear(election entities.Election) int {
	if election.DelegateType == entities.DelegateSecond {
		return election.Year - 1
	}
	return election.Year
}
