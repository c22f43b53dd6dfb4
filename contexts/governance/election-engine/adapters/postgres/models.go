package postgresadapter

import (
	"time"

	"univote/contexts/governance/election-engine/domain/entities"
)

type electionModel struct {
	ID               string    `gorm:"column:id;primaryKey"`
	Scope            string    `gorm:"column:scope"`
	ProgramID        string    `gorm:"column:program_id"`
	RoomID           string    `gorm:"column:room_id"`
	SchoolID         string    `gorm:"column:school_id"`
	Year             int       `gorm:"column:year"`
	DelegateType     string    `gorm:"column:delegate_type"`
	CandidacyStart   time.Time `gorm:"column:candidacy_start"`
	CandidacyEnd     time.Time `gorm:"column:candidacy_end"`
	VotingStart      time.Time `gorm:"column:voting_start"`
	VotingEnd        time.Time `gorm:"column:voting_end"`
	Active           bool      `gorm:"column:active"`
	ResultsPolicy    string    `gorm:"column:results_policy"`
	ResultsPublished bool      `gorm:"column:results_published"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (electionModel) TableName() string { return "elections" }

func electionModelFromEntity(e entities.Election) electionModel {
	return electionModel{
		ID:               e.ElectionID,
		Scope:            string(e.Scope),
		ProgramID:        e.ProgramID,
		RoomID:           e.RoomID,
		SchoolID:         e.SchoolID,
		Year:             e.Year,
		DelegateType:     string(e.DelegateType),
		CandidacyStart:   e.CandidacyStart.UTC(),
		CandidacyEnd:     e.CandidacyEnd.UTC(),
		VotingStart:      e.VotingStart.UTC(),
		VotingEnd:        e.VotingEnd.UTC(),
		Active:           e.Active,
		ResultsPolicy:    string(e.ResultsPolicy),
		ResultsPublished: e.ResultsPublished,
		CreatedAt:        e.CreatedAt.UTC(),
		UpdatedAt:        e.UpdatedAt.UTC(),
	}
}

func (m electionModel) toEntity() entities.Election {
	return entities.Election{
		ElectionID:       m.ID,
		Scope:            entities.ElectionScope(m.Scope),
		ProgramID:        m.ProgramID,
		RoomID:           m.RoomID,
		SchoolID:         m.SchoolID,
		Year:             m.Year,
		DelegateType:     entities.DelegateType(m.DelegateType),
		CandidacyStart:   m.CandidacyStart.UTC(),
		CandidacyEnd:     m.CandidacyEnd.UTC(),
		VotingStart:      m.VotingStart.UTC(),
		VotingEnd:        m.VotingEnd.UTC(),
		Active:           m.Active,
		ResultsPolicy:    entities.ResultsPolicy(m.ResultsPolicy),
		ResultsPublished: m.ResultsPublished,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

func toElectionEntities(rows []electionModel) []entities.Election {
	items := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

type candidateModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ElectionID string    `gorm:"column:election_id;index"`
	VoterID    string    `gorm:"column:voter_id"`
	Status     string    `gorm:"column:status"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (candidateModel) TableName() string { return "candidates" }

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID: m.ID,
		ElectionID:  m.ElectionID,
		VoterID:     m.VoterID,
		Status:      entities.CandidateStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type voteTokenModel struct {
	ElectionID string    `gorm:"column:election_id;primaryKey;uniqueIndex:idx_tokens_election_voter"`
	VoterID    string    `gorm:"column:voter_id;primaryKey;uniqueIndex:idx_tokens_election_voter"`
	Token      string    `gorm:"column:token;uniqueIndex"`
	Consumed   bool      `gorm:"column:consumed"`
	IssuedAt   time.Time `gorm:"column:issued_at"`
	ExpiresAt  time.Time `gorm:"column:expires_at"`
}

func (voteTokenModel) TableName() string { return "vote_tokens" }

func voteTokenModelFromEntity(t entities.VoteToken) voteTokenModel {
	return voteTokenModel{
		ElectionID: t.ElectionID,
		VoterID:    t.VoterID,
		Token:      t.Token,
		Consumed:   t.Consumed,
		IssuedAt:   t.IssuedAt.UTC(),
		ExpiresAt:  t.ExpiresAt.UTC(),
	}
}

func (m voteTokenModel) toEntity() entities.VoteToken {
	return entities.VoteToken{
		Token:      m.Token,
		VoterID:    m.VoterID,
		ElectionID: m.ElectionID,
		Consumed:   m.Consumed,
		IssuedAt:   m.IssuedAt.UTC(),
		ExpiresAt:  m.ExpiresAt.UTC(),
	}
}

type ballotModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ElectionID  string    `gorm:"column:election_id;uniqueIndex:idx_ballots_identity"`
	RoundID     string    `gorm:"column:round_id;uniqueIndex:idx_ballots_identity"`
	VoterID     string    `gorm:"column:voter_id;uniqueIndex:idx_ballots_identity"`
	CandidateID string    `gorm:"column:candidate_id;index"`
	Weight      float64   `gorm:"column:weight"`
	CastAt      time.Time `gorm:"column:cast_at"`
}

func (ballotModel) TableName() string { return "ballots" }

func ballotModelFromEntity(b entities.Ballot) ballotModel {
	return ballotModel{
		ID:          b.BallotID,
		ElectionID:  b.ElectionID,
		RoundID:     b.RoundID,
		VoterID:     b.VoterID,
		CandidateID: b.CandidateID,
		Weight:      b.Weight,
		CastAt:      b.CastAt.UTC(),
	}
}

func (m ballotModel) toEntity() entities.Ballot {
	return entities.Ballot{
		BallotID:    m.ID,
		ElectionID:  m.ElectionID,
		RoundID:     m.RoundID,
		VoterID:     m.VoterID,
		CandidateID: m.CandidateID,
		Weight:      m.Weight,
		CastAt:      m.CastAt.UTC(),
	}
}

type roleGrantModel struct {
	ID           string    `gorm:"column:id"`
	HolderID     string    `gorm:"column:holder_id;index"`
	Kind         string    `gorm:"column:kind;uniqueIndex:idx_grants_scope"`
	ProgramID    string    `gorm:"column:program_id;uniqueIndex:idx_grants_scope"`
	RoomID       string    `gorm:"column:room_id;uniqueIndex:idx_grants_scope"`
	SchoolID     string    `gorm:"column:school_id;uniqueIndex:idx_grants_scope"`
	Year         int       `gorm:"column:year;uniqueIndex:idx_grants_scope"`
	DelegateType string    `gorm:"column:delegate_type;uniqueIndex:idx_grants_scope"`
	GrantedAt    time.Time `gorm:"column:granted_at"`
}

func (roleGrantModel) TableName() string { return "role_grants" }

func roleGrantModelFromEntity(g entities.RoleGrant) roleGrantModel {
	return roleGrantModel{
		ID:           g.GrantID,
		HolderID:     g.HolderID,
		Kind:         string(g.Kind),
		ProgramID:    g.ProgramID,
		RoomID:       g.RoomID,
		SchoolID:     g.SchoolID,
		Year:         g.Year,
		DelegateType: string(g.DelegateType),
		GrantedAt:    g.GrantedAt.UTC(),
	}
}

func toGrantEntities(rows []roleGrantModel) []entities.RoleGrant {
	items := make([]entities.RoleGrant, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.RoleGrant{
			GrantID:      row.ID,
			HolderID:     row.HolderID,
			Kind:         entities.RoleKind(row.Kind),
			ProgramID:    row.ProgramID,
			RoomID:       row.RoomID,
			SchoolID:     row.SchoolID,
			Year:         row.Year,
			DelegateType: entities.DelegateType(row.DelegateType),
			GrantedAt:    row.GrantedAt.UTC(),
		})
	}
	return items
}

type electionRoundModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	ElectionID    string    `gorm:"column:election_id;uniqueIndex:idx_rounds_number"`
	Number        int       `gorm:"column:number;uniqueIndex:idx_rounds_number"`
	ParentRoundID string    `gorm:"column:parent_round_id"`
	StartsAt      time.Time `gorm:"column:starts_at"`
	EndsAt        time.Time `gorm:"column:ends_at"`
	Status        string    `gorm:"column:status"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (electionRoundModel) TableName() string { return "election_rounds" }

func electionRoundModelFromEntity(r entities.ElectionRound) electionRoundModel {
	return electionRoundModel{
		ID:            r.RoundID,
		ElectionID:    r.ElectionID,
		Number:        r.Number,
		ParentRoundID: r.ParentRoundID,
		StartsAt:      r.StartsAt.UTC(),
		EndsAt:        r.EndsAt.UTC(),
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

func (m electionRoundModel) toEntity() entities.ElectionRound {
	return entities.ElectionRound{
		RoundID:       m.ID,
		ElectionID:    m.ElectionID,
		Number:        m.Number,
		ParentRoundID: m.ParentRoundID,
		StartsAt:      m.StartsAt.UTC(),
		EndsAt:        m.EndsAt.UTC(),
		Status:        entities.RoundStatus(m.Status),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type roundCandidateModel struct {
	RoundID     string `gorm:"column:round_id;primaryKey"`
	CandidateID string `gorm:"column:candidate_id;primaryKey"`
}

func (roundCandidateModel) TableName() string { return "round_candidates" }

type studentModel struct {
	ID        string `gorm:"column:id;primaryKey"`
	ProgramID string `gorm:"column:program_id"`
	RoomID    string `gorm:"column:room_id"`
	SchoolID  string `gorm:"column:school_id"`
	Year      int    `gorm:"column:year"`
	Active    bool   `gorm:"column:active"`
}

func (studentModel) TableName() string { return "students" }
