package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"univote/contexts/governance/election-engine/domain/entities"
	domainerrors "univote/contexts/governance/election-engine/domain/errors"

	"github.com/google/uuid"
)

// Store is a mutex-guarded in-memory implementation of every engine port. The
// single mutex gives AdmitBallot the same atomicity the postgres adapter gets
// from a transaction, which makes the store safe for concurrent-submission
// tests.
type Store struct {
	mu sync.RWMutex

	elections  map[string]entities.Election
	candidates map[string]entities.Candidate
	tokens     map[string]entities.VoteToken // keyed by electionID + "/" + voterID
	ballots    map[string]entities.Ballot    // keyed by electionID + "/" + roundID + "/" + voterID
	grants     map[string]entities.RoleGrant // keyed by kind+scope identity
	rounds     map[string]entities.ElectionRound
	students   map[string]entities.StudentProfile

	nowOverride *time.Time
}

func NewStore() *Store {
	return &Store{
		elections:  make(map[string]entities.Election),
		candidates: make(map[string]entities.Candidate),
		tokens:     make(map[string]entities.VoteToken),
		ballots:    make(map[string]entities.Ballot),
		grants:     make(map[string]entities.RoleGrant),
		rounds:     make(map[string]entities.ElectionRound),
		students:   make(map[string]entities.StudentProfile),
	}
}

// Seeding helpers for tests and local wiring.

func (s *Store) SetElection(election entities.Election) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[strings.TrimSpace(election.ElectionID)] = election
}

func (s *Store) SetCandidate(candidate entities.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[strings.TrimSpace(candidate.CandidateID)] = candidate
}

func (s *Store) SetStudent(student entities.StudentProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students[strings.TrimSpace(student.VoterID)] = student
}

func (s *Store) SetGrant(grant entities.RoleGrant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grantScopeKey(grant)] = grant
}

func (s *Store) SetBallot(ballot entities.Ballot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ballots[ballotKey(ballot.ElectionID, ballot.RoundID, ballot.VoterID)] = ballot
}

func (s *Store) SetRound(round entities.ElectionRound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[strings.TrimSpace(round.RoundID)] = round
}

// SetNow pins the store clock for deterministic tests.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowOverride = &now
}

// ElectionRepository

func (s *Store) GetElection(_ context.Context, electionID string) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return election, nil
}

func (s *Store) SaveElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[strings.TrimSpace(election.ElectionID)] = election
	return nil
}

func (s *Store) ListExpiredActiveElections(_ context.Context, now time.Time) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Election, 0)
	for _, election := range s.elections {
		if election.Active && election.VotingElapsed(now) {
			items = append(items, election)
		}
	}
	sortElections(items)
	return items, nil
}

func (s *Store) ListActiveElections(_ context.Context, scope entities.ElectionScope) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Election, 0)
	for _, election := range s.elections {
		if election.Active && election.Scope == scope {
			items = append(items, election)
		}
	}
	sortElections(items)
	return items, nil
}

// CandidateRepository

func (s *Store) GetCandidate(_ context.Context, candidateID string) (entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, ok := s.candidates[strings.TrimSpace(candidateID)]
	if !ok {
		return entities.Candidate{}, domainerrors.ErrInvalidCandidate
	}
	return candidate, nil
}

func (s *Store) ListApprovedCandidates(_ context.Context, electionID string) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Candidate, 0)
	for _, candidate := range s.candidates {
		if candidate.ElectionID == strings.TrimSpace(electionID) && candidate.Status == entities.CandidateApproved {
			items = append(items, candidate)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CandidateID < items[j].CandidateID })
	return items, nil
}

// TokenRepository

func (s *Store) GetToken(_ context.Context, electionID string, voterID string) (entities.VoteToken, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[tokenKey(electionID, voterID)]
	return token, ok, nil
}

func (s *Store) GetTokenByValue(_ context.Context, value string) (entities.VoteToken, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, token := range s.tokens {
		if token.Token == strings.TrimSpace(value) {
			return token, true, nil
		}
	}
	return entities.VoteToken{}, false, nil
}

func (s *Store) PutToken(_ context.Context, token entities.VoteToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey(token.ElectionID, token.VoterID)] = token
	return nil
}

func (s *Store) CountTokens(_ context.Context, electionID string, issuedAfter time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, token := range s.tokens {
		if token.ElectionID != strings.TrimSpace(electionID) {
			continue
		}
		if !issuedAfter.IsZero() && token.IssuedAt.Before(issuedAfter) {
			continue
		}
		count++
	}
	return count, nil
}

// BallotRepository

func (s *Store) GetBallotByVoter(_ context.Context, electionID string, voterID string, roundID string) (entities.Ballot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ballot, ok := s.ballots[ballotKey(electionID, roundID, voterID)]
	return ballot, ok, nil
}

func (s *Store) AdmitBallot(_ context.Context, ballot entities.Ballot, tokenValue string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ballotKey(ballot.ElectionID, ballot.RoundID, ballot.VoterID)
	if _, exists := s.ballots[key]; exists {
		return domainerrors.ErrAlreadyVoted
	}

	tKey := tokenKey(ballot.ElectionID, ballot.VoterID)
	token, ok := s.tokens[tKey]
	if !ok || token.Token != strings.TrimSpace(tokenValue) || token.Consumed {
		return domainerrors.ErrInvalidOrExpiredToken
	}

	s.ballots[key] = ballot
	token.Consumed = true
	s.tokens[tKey] = token
	return nil
}

func (s *Store) ListBallots(_ context.Context, electionID string, roundID string) ([]entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Ballot, 0)
	for _, ballot := range s.ballots {
		if ballot.ElectionID == strings.TrimSpace(electionID) && ballot.RoundID == strings.TrimSpace(roundID) {
			items = append(items, ballot)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].BallotID < items[j].BallotID })
	return items, nil
}

// GrantRepository

func (s *Store) SaveGrant(_ context.Context, grant entities.RoleGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grantScopeKey(grant)] = grant
	return nil
}

func (s *Store) ListGrantsByHolder(_ context.Context, holderID string) ([]entities.RoleGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.RoleGrant, 0)
	for _, grant := range s.grants {
		if grant.HolderID == strings.TrimSpace(holderID) {
			items = append(items, grant)
		}
	}
	return items, nil
}

func (s *Store) ListGrantsByKind(_ context.Context, kind entities.RoleKind, schoolID string) ([]entities.RoleGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.RoleGrant, 0)
	for _, grant := range s.grants {
		if grant.Kind != kind {
			continue
		}
		if schoolID != "" && grant.SchoolID != strings.TrimSpace(schoolID) {
			continue
		}
		items = append(items, grant)
	}
	return items, nil
}

// RoundRepository

func (s *Store) GetActiveRound(_ context.Context, electionID string) (entities.ElectionRound, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var active *entities.ElectionRound
	for _, round := range s.rounds {
		if round.ElectionID != strings.TrimSpace(electionID) || round.Status != entities.RoundActive {
			continue
		}
		if active == nil || round.Number > active.Number {
			copied := round
			active = &copied
		}
	}
	if active == nil {
		return entities.ElectionRound{}, false, nil
	}
	return *active, true, nil
}

func (s *Store) ListRounds(_ context.Context, electionID string) ([]entities.ElectionRound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.ElectionRound, 0)
	for _, round := range s.rounds {
		if round.ElectionID == strings.TrimSpace(electionID) {
			items = append(items, round)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Number < items[j].Number })
	return items, nil
}

func (s *Store) SaveRound(_ context.Context, round entities.ElectionRound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[strings.TrimSpace(round.RoundID)] = round
	return nil
}

// StudentDirectory

func (s *Store) GetStudent(_ context.Context, voterID string) (entities.StudentProfile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	student, ok := s.students[strings.TrimSpace(voterID)]
	return student, ok, nil
}

// Clock

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.nowOverride != nil {
		return *s.nowOverride
	}
	return time.Now().UTC()
}

// IDGenerator

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func tokenKey(electionID string, voterID string) string {
	return strings.TrimSpace(electionID) + "/" + strings.TrimSpace(voterID)
}

func ballotKey(electionID string, roundID string, voterID string) string {
	return strings.TrimSpace(electionID) + "/" + strings.TrimSpace(roundID) + "/" + strings.TrimSpace(voterID)
}

func grantScopeKey(grant entities.RoleGrant) string {
	return strings.Join([]string{
		string(grant.Kind),
		strings.TrimSpace(grant.ProgramID),
		strings.TrimSpace(grant.RoomID),
		strings.TrimSpace(grant.SchoolID),
		string(grant.DelegateType),
		strconv.Itoa(grant.Year),
	}, "/")
}

func sortElections(items []entities.Election) {
	sort.Slice(items, func(i, j int) bool { return items[i].ElectionID < items[j].ElectionID })
}
