package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/formdesk-api/internal/dto"
	"github.com/noah-isme/formdesk-api/internal/models"
	"github.com/noah-isme/formdesk-api/internal/repository"
	appErrors "github.com/noah-isme/formdesk-api/pkg/errors"
)

func newTestAnnotation(store annotationStore, audit auditLog, metrics *MetricsService, cfg AnnotationConfig) *AnnotationService {
	return NewAnnotationService(store, audit, nil, metrics, nil, nil, cfg)
}

func TestAnnotationServiceUpdateComments(t *testing.T) {
	store := seedStore(t, models.Submission{ID: "s1", AccountNumber: "A", SubmittedAt: at(1), OfficialComments: "pending"})
	audit := repository.NewMemoryAuditRepository()
	metrics := NewMetricsService()
	svc := newTestAnnotation(store, audit, metrics, AnnotationConfig{})
	fixed := time.Date(2024, 2, 2, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	res, err := svc.UpdateComments(context.Background(), adminClaims, dto.UpdateCommentsRequest{SubmissionID: "s1", Comments: "reviewed"})
	require.NoError(t, err)
	assert.Equal(t, "Comments updated successfully", res.Message)
	assert.Equal(t, "admin", res.UpdatedBy)
	assert.Equal(t, fixed, res.UpdatedAt)
	assert.Regexp(t, `^audit_[0-9a-f-]{36}$`, res.AuditID)

	sub, err := store.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "reviewed", sub.OfficialComments)
	require.NotNil(t, sub.LastUpdatedBy)
	assert.Equal(t, "admin", *sub.LastUpdatedBy)
	require.NotNil(t, sub.LastUpdatedAt)
	assert.Equal(t, fixed, *sub.LastUpdatedAt)
	assert.Equal(t, at(1), sub.SubmittedAt)

	entries, err := audit.ListBySubmission(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditEntry{
		ID:           res.AuditID,
		SubmissionID: "s1",
		AdminID:      "1",
		AdminName:    "admin",
		Action:       models.AuditActionUpdateComments,
		Timestamp:    fixed,
		OldValue:     "pending",
		NewValue:     "reviewed",
	}, entries[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.commentUpdates.WithLabelValues(commentOutcomeSuccess)))
}

func TestAnnotationServiceIdempotentTextAppendsTwoEntries(t *testing.T) {
	store := seedStore(t, models.Submission{ID: "s1", AccountNumber: "A", SubmittedAt: at(1)})
	audit := repository.NewMemoryAuditRepository()
	svc := newTestAnnotation(store, audit, nil, AnnotationConfig{})
	req := dto.UpdateCommentsRequest{SubmissionID: "s1", Comments: "same"}

	_, err := svc.UpdateComments(context.Background(), adminClaims, req)
	require.NoError(t, err)
	_, err = svc.UpdateComments(context.Background(), adminClaims, req)
	require.NoError(t, err)

	sub, _ := store.GetByID(context.Background(), "s1")
	assert.Equal(t, "same", sub.OfficialComments)

	entries, err := audit.ListBySubmission(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "", entries[0].OldValue)
	assert.Equal(t, "same", entries[1].OldValue)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestAnnotationServiceUnknownSubmission(t *testing.T) {
	audit := repository.NewMemoryAuditRepository()
	metrics := NewMetricsService()
	svc := newTestAnnotation(seedStore(t), audit, metrics, AnnotationConfig{})

	_, err := svc.UpdateComments(context.Background(), adminClaims, dto.UpdateCommentsRequest{SubmissionID: "ghost", Comments: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Zero(t, audit.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.commentUpdates.WithLabelValues(commentOutcomeNotFound)))
}

func TestAnnotationServiceValidation(t *testing.T) {
	store := seedStore(t, models.Submission{ID: "s1", AccountNumber: "A", SubmittedAt: at(1)})
	audit := repository.NewMemoryAuditRepository()
	svc := newTestAnnotation(store, audit, nil, AnnotationConfig{})

	_, err := svc.UpdateComments(context.Background(), nil, dto.UpdateCommentsRequest{SubmissionID: "s1", Comments: "x"})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.UpdateComments(context.Background(), adminClaims, dto.UpdateCommentsRequest{SubmissionID: " ", Comments: "x"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	sub, _ := store.GetByID(context.Background(), "s1")
	assert.Empty(t, sub.OfficialComments)
	assert.Zero(t, audit.Len())
}

type failingAudit struct {
	repository.MemoryAuditRepository
}

func (f *failingAudit) Append(context.Context, *models.AuditEntry) error {
	return errors.New("audit store unavailable")
}

func TestAnnotationServiceAuditFailureAbortsUpdate(t *testing.T) {
	store := seedStore(t, models.Submission{ID: "s1", AccountNumber: "A", SubmittedAt: at(1), OfficialComments: "keep"})
	svc := newTestAnnotation(store, &failingAudit{}, nil, AnnotationConfig{})

	_, err := svc.UpdateComments(context.Background(), adminClaims, dto.UpdateCommentsRequest{SubmissionID: "s1", Comments: "lost"})
	require.Error(t, err)
	assert.Equal(t, 500, appErrors.FromError(err).Status)

	sub, _ := store.GetByID(context.Background(), "s1")
	assert.Equal(t, "keep", sub.OfficialComments)
	assert.Nil(t, sub.LastUpdatedBy)
}

func TestAnnotationServiceLatencyHonoursCancellation(t *testing.T) {
	store := seedStore(t, models.Submission{ID: "s1", AccountNumber: "A", SubmittedAt: at(1)})
	audit := repository.NewMemoryAuditRepository()
	svc := newTestAnnotation(store, audit, nil, AnnotationConfig{Latency: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.UpdateComments(ctx, adminClaims, dto.UpdateCommentsRequest{SubmissionID: "s1", Comments: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, audit.Len())
}

func TestAnnotationServiceHistory(t *testing.T) {
	store := seedStore(t, models.Submission{ID: "s1", AccountNumber: "A", SubmittedAt: at(1)})
	audit := repository.NewMemoryAuditRepository()
	svc := newTestAnnotation(store, audit, nil, AnnotationConfig{})
	ctx := context.Background()

	for _, text := range []string{"first", "second"} {
		_, err := svc.UpdateComments(ctx, adminClaims, dto.UpdateCommentsRequest{SubmissionID: "s1", Comments: text})
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, adminClaims, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, history.Total)
	assert.Equal(t, "first", history.Entries[0].NewValue)
	assert.Equal(t, "first", history.Entries[1].OldValue)

	_, err = svc.History(ctx, adminClaims, "ghost")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.History(ctx, nil, "s1")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
