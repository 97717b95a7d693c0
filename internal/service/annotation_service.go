package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/formdesk-api/internal/dto"
	"github.com/noah-isme/formdesk-api/internal/models"
	"github.com/noah-isme/formdesk-api/internal/repository"
	appErrors "github.com/noah-isme/formdesk-api/pkg/errors"
)

// Comment update outcomes recorded in metrics.
const (
	commentOutcomeSuccess  = "success"
	commentOutcomeNotFound = "not_found"
	commentOutcomeError    = "error"
)

type annotationStore interface {
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	Update(ctx context.Context, id string, mutate repository.SubmissionMutation) (*models.Submission, error)
}

type auditLog interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
	ListBySubmission(ctx context.Context, submissionID string) ([]models.AuditEntry, error)
}

// AnnotationConfig tunes the comment update flow.
type AnnotationConfig struct {
	// Latency delays every update; zero disables it.
	Latency time.Duration
}

// AnnotationService writes reviewer comments and their audit trail.
type AnnotationService struct {
	store     annotationStore
	audit     auditLog
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       AnnotationConfig
	now       func() time.Time
}

// NewAnnotationService constructs an AnnotationService.
func NewAnnotationService(store annotationStore, audit auditLog, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg AnnotationConfig) *AnnotationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AnnotationService{
		store:     store,
		audit:     audit,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// UpdateComments replaces the submission's official comments and appends one audit entry
// carrying the previous value. Both happen under the store's per-record lock; if the audit
// append fails the comment is left unchanged.
func (s *AnnotationService) UpdateComments(ctx context.Context, claims *models.AdminClaims, req dto.UpdateCommentsRequest) (*dto.UpdateCommentsResponse, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	req.SubmissionID = strings.TrimSpace(req.SubmissionID)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "Submission ID is required")
	}

	if err := s.wait(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "comment update cancelled")
	}

	now := s.now().UTC()
	entry := &models.AuditEntry{
		ID:           "audit_" + uuid.NewString(),
		SubmissionID: req.SubmissionID,
		AdminID:      claims.UserID,
		AdminName:    claims.Username,
		Action:       models.AuditActionUpdateComments,
		Timestamp:    now,
		NewValue:     req.Comments,
	}

	updated, err := s.store.Update(ctx, req.SubmissionID, func(ctx context.Context, current *models.Submission) error {
		entry.OldValue = current.OfficialComments
		by := claims.Username
		at := now
		current.OfficialComments = req.Comments
		current.LastUpdatedBy = &by
		current.LastUpdatedAt = &at
		return s.audit.Append(ctx, entry)
	})
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			s.metrics.RecordCommentUpdate(commentOutcomeNotFound)
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Submission not found")
		case errors.Is(err, repository.ErrVersionConflict):
			s.metrics.RecordCommentUpdate(commentOutcomeError)
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "Submission was modified concurrently, retry")
		default:
			s.metrics.RecordCommentUpdate(commentOutcomeError)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update comments")
		}
	}

	_ = s.cache.InvalidateAccount(ctx, updated.AccountNumber)
	s.metrics.RecordCommentUpdate(commentOutcomeSuccess)
	s.logger.Info("submission comments updated",
		zap.String("submission_id", updated.ID),
		zap.String("admin_id", claims.UserID),
		zap.String("audit_id", entry.ID),
	)

	return &dto.UpdateCommentsResponse{
		Message:   "Comments updated successfully",
		UpdatedAt: now,
		UpdatedBy: claims.Username,
		AuditID:   entry.ID,
	}, nil
}

// History lists the audit entries of a submission, oldest first.
func (s *AnnotationService) History(ctx context.Context, claims *models.AdminClaims, submissionID string) (*dto.AuditHistoryResponse, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	submissionID = strings.TrimSpace(submissionID)
	if submissionID == "" {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "Submission ID is required")
	}
	if _, err := s.store.GetByID(ctx, submissionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}

	entries, err := s.audit.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit history")
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	return &dto.AuditHistoryResponse{SubmissionID: submissionID, Entries: entries, Total: len(entries)}, nil
}

func (s *AnnotationService) wait(ctx context.Context) error {
	if s.cfg.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.cfg.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
