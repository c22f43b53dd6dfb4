package entities

import "time"

type ElectionScope string

const (
	ScopeRoom       ElectionScope = "room"
	ScopeSchool     ElectionScope = "school"
	ScopeUniversity ElectionScope = "university"
)

// Phase returns the stage number the scope maps to (1=room, 2=school, 3=university).
func (s ElectionScope) Phase() int {
	switch s {
	case ScopeRoom:
		return 1
	case ScopeSchool:
		return 2
	case ScopeUniversity:
		return 3
	default:
		return 0
	}
}

type DelegateType string

const (
	DelegateFirst  DelegateType = "first"
	DelegateSecond DelegateType = "second"
)

type ResultsPolicy string

const (
	ResultsImmediate ResultsPolicy = "immediate"
	ResultsManual    ResultsPolicy = "manual"
)

// Election identifies one contest at a single organizational scope.
// Scope keys are filled per scope: room elections carry program/room/school/year,
// school elections carry school + delegate type + cohort year, university
// elections carry only the delegate type.
type Election struct {
	ElectionID       string
	Scope            ElectionScope
	ProgramID        string
	RoomID           string
	SchoolID         string
	Year             int
	DelegateType     DelegateType
	CandidacyStart   time.Time
	CandidacyEnd     time.Time
	VotingStart      time.Time
	VotingEnd        time.Time
	Active           bool
	ResultsPolicy    ResultsPolicy
	ResultsPublished bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (e Election) VotingOpen(now time.Time) bool {
	return e.Active && !now.Before(e.VotingStart) && now.Before(e.VotingEnd)
}

func (e Election) VotingElapsed(now time.Time) bool {
	return !now.Before(e.VotingEnd)
}

type CandidateStatus string

const (
	CandidatePending  CandidateStatus = "pending"
	CandidateApproved CandidateStatus = "approved"
	CandidateRejected CandidateStatus = "rejected"
)

// Candidate is one standing for one election. Only approved candidates may
// receive ballots or appear in tallies.
type Candidate struct {
	CandidateID string
	ElectionID  string
	VoterID     string
	Status      CandidateStatus
	CreatedAt   time.Time
}

type RoundStatus string

const (
	RoundActive    RoundStatus = "active"
	RoundCompleted RoundStatus = "completed"
)

// ElectionRound is one runoff iteration inside a university election. Round
// numbers strictly increase per election and a round's candidate subset is a
// non-empty subset of its parent's.
type ElectionRound struct {
	RoundID       string
	ElectionID    string
	Number        int
	ParentRoundID string
	CandidateIDs  []string
	StartsAt      time.Time
	EndsAt        time.Time
	Status        RoundStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r ElectionRound) HasCandidate(candidateID string) bool {
	for _, id := range r.CandidateIDs {
		if id == candidateID {
			return true
		}
	}
	return false
}
