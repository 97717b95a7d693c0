package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/formdesk-api/internal/models"
)

// ErrSubmissionExists is returned by Append when the id is already taken.
var ErrSubmissionExists = errors.New("submission id already exists")

// ErrVersionConflict is returned when a locked row changed version before the write landed.
var ErrVersionConflict = errors.New("submission version conflict")

// MaxPageSize caps ListByAccount pages.
const MaxPageSize = 100

// SubmissionMutation edits a private copy of a stored submission. The copy is persisted only
// when the mutation returns nil. Writes issued through ctx (audit appends) join the same unit
// of work as the update.
type SubmissionMutation func(ctx context.Context, current *models.Submission) error

type txKey struct{}

func withTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx
}

// normalizePage returns zero offset and limit when paging is not requested.
func normalizePage(filter models.SubmissionFilter) (offset, limit int) {
	if filter.Page <= 0 && filter.PageSize <= 0 {
		return 0, 0
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > MaxPageSize {
		size = MaxPageSize
	}
	return (page - 1) * size, size
}
