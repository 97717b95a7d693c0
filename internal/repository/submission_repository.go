package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/formdesk-api/internal/models"
)

const (
	submissionColumns = `id, form_type, account_number, submitted_at, form_data, official_comments, last_updated_by, last_updated_at, version`
	uniqueViolation   = "23505"
)

// SubmissionRepository persists submissions in PostgreSQL.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository creates a new instance of SubmissionRepository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// GetByID returns a submission by identifier.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1 LIMIT 1`
	var sub models.Submission
	if err := r.db.GetContext(ctx, &sub, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find submission by id: %w", err)
	}
	return &sub, nil
}

// ListByAccount returns matching submissions newest first, with the unpaged total.
func (r *SubmissionRepository) ListByAccount(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error) {
	conditions := []string{"account_number = $1"}
	args := []interface{}{filter.AccountNumber}
	if filter.FormType != "" {
		conditions = append(conditions, fmt.Sprintf("form_type = $%d", len(args)+1))
		args = append(args, string(filter.FormType))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM submissions"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	query := "SELECT " + submissionColumns + " FROM submissions" + where + " ORDER BY submitted_at DESC"
	if offset, limit := normalizePage(filter); limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	subs := make([]models.Submission, 0)
	if err := r.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	return subs, total, nil
}

// Append inserts a new submission.
func (r *SubmissionRepository) Append(ctx context.Context, sub *models.Submission) error {
	const query = `INSERT INTO submissions (id, form_type, account_number, submitted_at, form_data, official_comments, last_updated_by, last_updated_at, version)
VALUES (:id, :form_type, :account_number, :submitted_at, :form_data, :official_comments, :last_updated_by, :last_updated_at, 1)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrSubmissionExists
		}
		return fmt.Errorf("create submission: %w", err)
	}
	sub.Version = 1
	return nil
}

// Update locks the row, applies mutate and writes the comment fields back guarded by the
// version column. Audit rows written through the mutation's context commit with it.
func (r *SubmissionRepository) Update(ctx context.Context, id string, mutate SubmissionMutation) (updated *models.Submission, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin submission transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current models.Submission
	selectQuery := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, selectQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("lock submission: %w", err)
	}

	next := current.Clone()
	if err = mutate(withTx(ctx, tx), next); err != nil {
		return nil, err
	}

	const updateQuery = `UPDATE submissions SET official_comments = $1, last_updated_by = $2, last_updated_at = $3, version = version + 1
WHERE id = $4 AND version = $5`
	res, err := tx.ExecContext(ctx, updateQuery, next.OfficialComments, next.LastUpdatedBy, next.LastUpdatedAt, current.ID, current.Version)
	if err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update submission rows: %w", err)
	}
	if affected != 1 {
		err = ErrVersionConflict
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit submission update: %w", err)
	}
	next.ID = current.ID
	next.SubmittedAt = current.SubmittedAt
	next.Version = current.Version + 1
	return next, nil
}
