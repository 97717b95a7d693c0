package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/noah-isme/formdesk-api/internal/models"
)

// MemorySubmissionRepository keeps submissions in process memory. Records are copied on the
// way in and out so callers never share state with the store.
type MemorySubmissionRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.Submission
	order []string
}

// NewMemorySubmissionRepository constructs an empty in-memory store.
func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{byID: make(map[string]*models.Submission)}
}

// GetByID returns sql.ErrNoRows when the id is unknown.
func (r *MemorySubmissionRepository) GetByID(_ context.Context, id string) (*models.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return sub.Clone(), nil
}

// ListByAccount filters by exact account number and optional form type, newest first.
// total counts every match before paging.
func (r *MemorySubmissionRepository) ListByAccount(_ context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error) {
	r.mu.RLock()
	matches := make([]models.Submission, 0)
	for _, id := range r.order {
		sub := r.byID[id]
		if sub.AccountNumber != filter.AccountNumber {
			continue
		}
		if filter.FormType != "" && sub.FormType != filter.FormType {
			continue
		}
		matches = append(matches, *sub.Clone())
	}
	r.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SubmittedAt.After(matches[j].SubmittedAt)
	})

	total := len(matches)
	offset, limit := normalizePage(filter)
	if limit == 0 {
		return matches, total, nil
	}
	if offset >= total {
		return []models.Submission{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

// Append stores a new submission. Duplicate ids return ErrSubmissionExists.
func (r *MemorySubmissionRepository) Append(_ context.Context, sub *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[sub.ID]; exists {
		return ErrSubmissionExists
	}
	stored := sub.Clone()
	stored.Version = 1
	r.byID[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	sub.Version = stored.Version
	return nil
}

// Update applies mutate while holding the write lock, so reads of the current value and the
// write happen without interleaving edits.
func (r *MemorySubmissionRepository) Update(ctx context.Context, id string, mutate SubmissionMutation) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	next := current.Clone()
	if err := mutate(ctx, next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.SubmittedAt = current.SubmittedAt
	next.Version = current.Version + 1
	r.byID[id] = next
	return next.Clone(), nil
}

// Len reports the number of stored submissions.
func (r *MemorySubmissionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
