package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/formdesk-api/internal/models"
)

// AuditRepository persists the comment audit trail in PostgreSQL. Rows are never updated.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append inserts an entry, joining the caller's submission transaction when there is one.
func (r *AuditRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	const query = `INSERT INTO submission_audit (id, submission_id, admin_id, admin_name, action, old_value, new_value, created_at)
VALUES (:id, :submission_id, :admin_id, :admin_name, :action, :old_value, :new_value, :created_at)`
	var exec sqlx.ExtContext = r.db
	if tx := txFromContext(ctx); tx != nil {
		exec = tx
	}
	if _, err := sqlx.NamedExecContext(ctx, exec, query, entry); err != nil {
		return fmt.Errorf("create audit entry: %w", err)
	}
	return nil
}

// ListBySubmission returns entries oldest first.
func (r *AuditRepository) ListBySubmission(ctx context.Context, submissionID string) ([]models.AuditEntry, error) {
	const query = `SELECT id, submission_id, admin_id, admin_name, action, old_value, new_value, created_at
FROM submission_audit WHERE submission_id = $1 ORDER BY created_at ASC, id ASC`
	entries := make([]models.AuditEntry, 0)
	if err := r.db.SelectContext(ctx, &entries, query, submissionID); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
