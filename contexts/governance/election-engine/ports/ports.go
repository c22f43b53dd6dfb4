package ports

import (
	"context"
	"time"

	"univote/contexts/governance/election-engine/domain/entities"
)

type ElectionRepository interface {
	GetElection(ctx context.Context, electionID string) (entities.Election, error)
	SaveElection(ctx context.Context, election entities.Election) error
	// ListExpiredActiveElections returns elections still marked active whose
	// voting window has elapsed at now.
	ListExpiredActiveElections(ctx context.Context, now time.Time) ([]entities.Election, error)
	ListActiveElections(ctx context.Context, scope entities.ElectionScope) ([]entities.Election, error)
}

type CandidateRepository interface {
	GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error)
	ListApprovedCandidates(ctx context.Context, electionID string) ([]entities.Candidate, error)
}

type TokenRepository interface {
	GetToken(ctx context.Context, electionID string, voterID string) (entities.VoteToken, bool, error)
	GetTokenByValue(ctx context.Context, token string) (entities.VoteToken, bool, error)
	// PutToken upserts the single token row keyed by (election, voter).
	// Replacement overwrites in place; it never creates a second row for the
	// same pair.
	PutToken(ctx context.Context, token entities.VoteToken) error
	// CountTokens counts token rows for the election. A non-zero issuedAfter
	// restricts the count to tokens issued (or re-issued) at or after that
	// instant, which is how runoff-round participation is measured.
	CountTokens(ctx context.Context, electionID string, issuedAfter time.Time) (int, error)
}

type BallotRepository interface {
	GetBallotByVoter(ctx context.Context, electionID string, voterID string, roundID string) (entities.Ballot, bool, error)
	// AdmitBallot inserts the ballot and marks the token consumed as one atomic
	// unit. A duplicate (voter, election, round) ballot surfaces ErrAlreadyVoted;
	// a token already consumed by a concurrent submission surfaces
	// ErrInvalidOrExpiredToken.
	AdmitBallot(ctx context.Context, ballot entities.Ballot, token string) error
	ListBallots(ctx context.Context, electionID string, roundID string) ([]entities.Ballot, error)
}

type GrantRepository interface {
	// SaveGrant upserts on the grant's kind+scope identity so a new winner
	// supersedes the previous holder.
	SaveGrant(ctx context.Context, grant entities.RoleGrant) error
	ListGrantsByHolder(ctx context.Context, holderID string) ([]entities.RoleGrant, error)
	ListGrantsByKind(ctx context.Context, kind entities.RoleKind, schoolID string) ([]entities.RoleGrant, error)
}

type RoundRepository interface {
	GetActiveRound(ctx context.Context, electionID string) (entities.ElectionRound, bool, error)
	ListRounds(ctx context.Context, electionID string) ([]entities.ElectionRound, error)
	SaveRound(ctx context.Context, round entities.ElectionRound) error
}

// StudentDirectory is a projection over the externally-owned student records.
type StudentDirectory interface {
	GetStudent(ctx context.Context, voterID string) (entities.StudentProfile, bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
