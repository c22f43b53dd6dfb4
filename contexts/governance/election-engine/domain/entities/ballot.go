package entities

import "time"

// VoteToken is the one-time, time-boxed credential proving voting eligibility
// for one (voter, election) pair. At most one token row exists per pair; a
// replacement overwrites the row instead of inserting a second one.
type VoteToken struct {
	Token      string
	VoterID    string
	ElectionID string
	Consumed   bool
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

func (t VoteToken) Live(now time.Time) bool {
	return !t.Consumed && now.Before(t.ExpiresAt)
}

// Ballot is an admitted, weighted tally unit. The voter id is retained for
// duplicate prevention only and never exposed in results. RoundID is empty for
// room and school elections. Immutable once written.
type Ballot struct {
	BallotID    string
	ElectionID  string
	RoundID     string
	VoterID     string
	CandidateID string
	Weight      float64
	CastAt      time.Time
}

type RoleKind string

const (
	RoleRoomRepresentative RoleKind = "room_representative"
	RoleSchoolDelegate     RoleKind = "school_delegate"
	RoleUniversityDelegate RoleKind = "university_delegate"
)

// RoleGrant is a derived eligibility fact produced when a phase concludes. A
// newer grant of the same kind and scope supersedes the previous holder.
type RoleGrant struct {
	GrantID      string
	HolderID     string
	Kind         RoleKind
	ProgramID    string
	RoomID       string
	SchoolID     string
	Year         int
	DelegateType DelegateType
	GrantedAt    time.Time
}
