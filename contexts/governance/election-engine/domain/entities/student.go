package entities

// StudentProfile is the slice of the student directory the engine needs for
// eligibility decisions. Student records are owned by the surrounding system;
// this is a read-only projection.
type StudentProfile struct {
	VoterID   string
	ProgramID string
	RoomID    string
	SchoolID  string
	Year      int
	Active    bool
}
