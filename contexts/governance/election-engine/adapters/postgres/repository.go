package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"univote/contexts/governance/election-engine/domain/entities"
	domainerrors "univote/contexts/governance/election-engine/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements every engine port on a relational store through gorm.
// The ballot table carries a unique (election_id, round_id, voter_id) index as
// the double-vote backstop; AdmitBallot relies on it inside a transaction.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// Migrate creates the engine's tables. Intended for sqlite development wiring
// and tests; production schemas are managed externally.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&electionModel{},
		&candidateModel{},
		&voteTokenModel{},
		&ballotModel{},
		&roleGrantModel{},
		&electionRoundModel{},
		&roundCandidateModel{},
		&studentModel{},
	)
}

// ElectionRepository

func (r *Repository) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("election_repo_get_election_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) SaveElection(ctx context.Context, election entities.Election) error {
	row := electionModelFromEntity(election)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"scope":             row.Scope,
			"program_id":        row.ProgramID,
			"room_id":           row.RoomID,
			"school_id":         row.SchoolID,
			"year":              row.Year,
			"delegate_type":     row.DelegateType,
			"candidacy_start":   row.CandidacyStart,
			"candidacy_end":     row.CandidacyEnd,
			"voting_start":      row.VotingStart,
			"voting_end":        row.VotingEnd,
			"active":            row.Active,
			"results_policy":    row.ResultsPolicy,
			"results_published": row.ResultsPublished,
			"updated_at":        row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("election_repo_save_election_failed", create.Error,
			"election_id", strings.TrimSpace(election.ElectionID),
		)
	}
	return nil
}

func (r *Repository) ListExpiredActiveElections(ctx context.Context, now time.Time) ([]entities.Election, error) {
	var rows []electionModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("voting_end <= ?", now.UTC()).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_expired_failed", err)
	}
	return toElectionEntities(rows), nil
}

func (r *Repository) ListActiveElections(ctx context.Context, scope entities.ElectionScope) ([]entities.Election, error) {
	var rows []electionModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("scope = ?", string(scope)).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_active_failed", err, "scope", string(scope))
	}
	return toElectionEntities(rows), nil
}

// CandidateRepository

func (r *Repository) GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(candidateID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, domainerrors.ErrInvalidCandidate
		}
		return entities.Candidate{}, r.logError("election_repo_get_candidate_failed", err,
			"candidate_id", strings.TrimSpace(candidateID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListApprovedCandidates(ctx context.Context, electionID string) ([]entities.Candidate, error) {
	var rows []candidateModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("status = ?", string(entities.CandidateApproved)).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_candidates_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// TokenRepository

func (r *Repository) GetToken(ctx context.Context, electionID string, voterID string) (entities.VoteToken, bool, error) {
	var row voteTokenModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VoteToken{}, false, nil
		}
		return entities.VoteToken{}, false, r.logError("election_repo_get_token_failed", err,
			"election_id", strings.TrimSpace(electionID),
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) GetTokenByValue(ctx context.Context, token string) (entities.VoteToken, bool, error) {
	var row voteTokenModel
	err := r.db.WithContext(ctx).
		Where("token = ?", strings.TrimSpace(token)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VoteToken{}, false, nil
		}
		return entities.VoteToken{}, false, r.logError("election_repo_get_token_by_value_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) PutToken(ctx context.Context, token entities.VoteToken) error {
	row := voteTokenModelFromEntity(token)
	// One row per (election, voter): replacement overwrites the existing row so
	// concurrent issue requests cannot race a second row into existence.
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "election_id"}, {Name: "voter_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"token":      row.Token,
			"consumed":   row.Consumed,
			"issued_at":  row.IssuedAt,
			"expires_at": row.ExpiresAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("election_repo_put_token_failed", create.Error,
			"election_id", strings.TrimSpace(token.ElectionID),
			"voter_id", strings.TrimSpace(token.VoterID),
		)
	}
	return nil
}

func (r *Repository) CountTokens(ctx context.Context, electionID string, issuedAfter time.Time) (int, error) {
	tx := r.db.WithContext(ctx).
		Model(&voteTokenModel{}).
		Where("election_id = ?", strings.TrimSpace(electionID))
	if !issuedAfter.IsZero() {
		tx = tx.Where("issued_at >= ?", issuedAfter.UTC())
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, r.logError("election_repo_count_tokens_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return int(count), nil
}

// BallotRepository

func (r *Repository) GetBallotByVoter(ctx context.Context, electionID string, voterID string, roundID string) (entities.Ballot, bool, error) {
	var row ballotModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		Where("round_id = ?", strings.TrimSpace(roundID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Ballot{}, false, nil
		}
		return entities.Ballot{}, false, r.logError("election_repo_get_ballot_failed", err,
			"election_id", strings.TrimSpace(electionID),
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return row.toEntity(), true, nil
}

// AdmitBallot writes the ballot and consumes the token in one transaction. The
// unique ballot index turns a concurrent duplicate into ErrAlreadyVoted; a
// token consumed by a racing submission turns into ErrInvalidOrExpiredToken.
// Either way the transaction rolls back whole, so no half-state survives.
func (r *Repository) AdmitBallot(ctx context.Context, ballot entities.Ballot, token string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := ballotModelFromEntity(ballot)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyVoted
			}
			return err
		}
		consume := tx.Model(&voteTokenModel{}).
			Where("token = ?", strings.TrimSpace(token)).
			Where("consumed = ?", false).
			Update("consumed", true)
		if consume.Error != nil {
			return consume.Error
		}
		if consume.RowsAffected == 0 {
			return domainerrors.ErrInvalidOrExpiredToken
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyVoted) || errors.Is(err, domainerrors.ErrInvalidOrExpiredToken) {
			return err
		}
		return r.logError("election_repo_admit_ballot_failed", err,
			"election_id", strings.TrimSpace(ballot.ElectionID),
			"ballot_id", strings.TrimSpace(ballot.BallotID),
		)
	}
	return nil
}

func (r *Repository) ListBallots(ctx context.Context, electionID string, roundID string) ([]entities.Ballot, error) {
	var rows []ballotModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("round_id = ?", strings.TrimSpace(roundID)).
		Order("cast_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_ballots_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]entities.Ballot, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// GrantRepository

func (r *Repository) SaveGrant(ctx context.Context, grant entities.RoleGrant) error {
	row := roleGrantModelFromEntity(grant)
	// Upsert on the kind+scope identity: a new proclamation supersedes the
	// previous holder of the same role.
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "kind"}, {Name: "program_id"}, {Name: "room_id"},
			{Name: "school_id"}, {Name: "year"}, {Name: "delegate_type"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"id":         row.ID,
			"holder_id":  row.HolderID,
			"granted_at": row.GrantedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("election_repo_save_grant_failed", create.Error,
			"holder_id", strings.TrimSpace(grant.HolderID),
			"kind", string(grant.Kind),
		)
	}
	return nil
}

func (r *Repository) ListGrantsByHolder(ctx context.Context, holderID string) ([]entities.RoleGrant, error) {
	var rows []roleGrantModel
	if err := r.db.WithContext(ctx).
		Where("holder_id = ?", strings.TrimSpace(holderID)).
		Order("granted_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_grants_by_holder_failed", err,
			"holder_id", strings.TrimSpace(holderID),
		)
	}
	return toGrantEntities(rows), nil
}

func (r *Repository) ListGrantsByKind(ctx context.Context, kind entities.RoleKind, schoolID string) ([]entities.RoleGrant, error) {
	tx := r.db.WithContext(ctx).Model(&roleGrantModel{}).
		Where("kind = ?", string(kind))
	if strings.TrimSpace(schoolID) != "" {
		tx = tx.Where("school_id = ?", strings.TrimSpace(schoolID))
	}
	var rows []roleGrantModel
	if err := tx.Order("granted_at ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_grants_by_kind_failed", err,
			"kind", string(kind),
		)
	}
	return toGrantEntities(rows), nil
}

// RoundRepository

func (r *Repository) GetActiveRound(ctx context.Context, electionID string) (entities.ElectionRound, bool, error) {
	var row electionRoundModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("status = ?", string(entities.RoundActive)).
		Order("number DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ElectionRound{}, false, nil
		}
		return entities.ElectionRound{}, false, r.logError("election_repo_get_active_round_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	round, err := r.attachRoundCandidates(ctx, row)
	if err != nil {
		return entities.ElectionRound{}, false, err
	}
	return round, true, nil
}

func (r *Repository) ListRounds(ctx context.Context, electionID string) ([]entities.ElectionRound, error) {
	var rows []electionRoundModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("number ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_rounds_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]entities.ElectionRound, 0, len(rows))
	for _, row := range rows {
		round, err := r.attachRoundCandidates(ctx, row)
		if err != nil {
			return nil, err
		}
		items = append(items, round)
	}
	return items, nil
}

func (r *Repository) SaveRound(ctx context.Context, round entities.ElectionRound) error {
	row := electionRoundModelFromEntity(round)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		create := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":     row.Status,
				"starts_at":  row.StartsAt,
				"ends_at":    row.EndsAt,
				"updated_at": row.UpdatedAt,
			}),
		}).Create(&row)
		if create.Error != nil {
			return create.Error
		}
		if err := tx.Where("round_id = ?", row.ID).Delete(&roundCandidateModel{}).Error; err != nil {
			return err
		}
		for _, candidateID := range round.CandidateIDs {
			member := roundCandidateModel{
				RoundID:     row.ID,
				CandidateID: strings.TrimSpace(candidateID),
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return r.logError("election_repo_save_round_failed", err,
			"round_id", strings.TrimSpace(round.RoundID),
			"election_id", strings.TrimSpace(round.ElectionID),
		)
	}
	return nil
}

func (r *Repository) attachRoundCandidates(ctx context.Context, row electionRoundModel) (entities.ElectionRound, error) {
	var members []roundCandidateModel
	if err := r.db.WithContext(ctx).
		Where("round_id = ?", row.ID).
		Order("candidate_id ASC").
		Find(&members).Error; err != nil {
		return entities.ElectionRound{}, r.logError("election_repo_round_candidates_failed", err,
			"round_id", row.ID,
		)
	}
	round := row.toEntity()
	round.CandidateIDs = make([]string, 0, len(members))
	for _, member := range members {
		round.CandidateIDs = append(round.CandidateIDs, member.CandidateID)
	}
	return round, nil
}

// StudentDirectory

func (r *Repository) GetStudent(ctx context.Context, voterID string) (entities.StudentProfile, bool, error) {
	var row studentModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.StudentProfile{}, false, nil
		}
		return entities.StudentProfile{}, false, r.logError("election_repo_get_student_failed", err,
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return entities.StudentProfile{
		VoterID:   row.ID,
		ProgramID: row.ProgramID,
		RoomID:    row.RoomID,
		SchoolID:  row.SchoolID,
		Year:      row.Year,
		Active:    row.Active,
	}, true, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "governance/election-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("election repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// The sqlite development driver reports constraint failures as plain
	// strings.
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
