package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/formdesk-api/internal/models"
)

// MemoryAuditRepository is an append-only in-process audit log.
type MemoryAuditRepository struct {
	mu      sync.RWMutex
	entries []models.AuditEntry
}

// NewMemoryAuditRepository constructs an empty log.
func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{}
}

func (r *MemoryAuditRepository) Append(_ context.Context, entry *models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *MemoryAuditRepository) ListBySubmission(_ context.Context, submissionID string) ([]models.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.AuditEntry, 0)
	for _, e := range r.entries {
		if e.SubmissionID == submissionID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Len reports the number of entries across all submissions.
func (r *MemoryAuditRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
