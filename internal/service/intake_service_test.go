package service

import (
	"context"
	"errors"
	"regexp"
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

var intakeNow = time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

func newTestIntake(store intakeStore, cache *CacheService, metrics *MetricsService) *IntakeService {
	svc := NewIntakeService(store, cache, metrics, nil)
	svc.now = func() time.Time { return intakeNow }
	return svc
}

func TestIntakeServiceFlatPayload(t *testing.T) {
	store := repository.NewMemorySubmissionRepository()
	svc := newTestIntake(store, nil, nil)

	res, err := svc.Submit(context.Background(), map[string]interface{}{
		"id":            "sub_1706000000000",
		"formType":      string(models.FormChequeRequisition),
		"accountNumber": "1234567890",
		"branch":        "Ikeja",
		"chequeLeaves":  "50",
		"submittedAt":   "2024-01-23T16:20:00.000Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "sub_1706000000000", res.ID)
	assert.Equal(t, "Submission saved successfully", res.Message)

	sub, err := store.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormChequeRequisition, sub.FormType)
	assert.Equal(t, "1234567890", sub.AccountNumber)
	assert.Equal(t, time.Date(2024, 1, 23, 16, 20, 0, 0, time.UTC), sub.SubmittedAt)
	assert.Equal(t, models.FormData{"accountNumber": "1234567890", "branch": "Ikeja", "chequeLeaves": "50"}, sub.FormData)
	assert.Empty(t, sub.OfficialComments)
	assert.Nil(t, sub.LastUpdatedBy)
	assert.Nil(t, sub.LastUpdatedAt)
}

func TestIntakeServiceNestedPayloadAndDefaults(t *testing.T) {
	store := repository.NewMemorySubmissionRepository()
	svc := newTestIntake(store, nil, nil)

	res, err := svc.Submit(context.Background(), map[string]interface{}{
		"formType":         string(models.FormEDispute),
		"formData":         map[string]interface{}{"accountNumber": "5555666677", "amount": "2000"},
		"officialComments": "client cannot set this",
		"submittedAt":      "yesterday",
	})
	require.NoError(t, err)
	assert.Equal(t, "sub_1706778000000", res.ID)

	sub, err := store.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "5555666677", sub.AccountNumber)
	assert.Equal(t, intakeNow, sub.SubmittedAt)
	assert.Empty(t, sub.OfficialComments)
	assert.NotContains(t, sub.FormData, "officialComments")
}

func TestIntakeServiceReassignsDuplicateID(t *testing.T) {
	store := repository.NewMemorySubmissionRepository()
	metrics := NewMetricsService()
	svc := newTestIntake(store, nil, metrics)
	payload := map[string]interface{}{"id": "sub_1", "formType": string(models.FormEDispute), "accountNumber": "A"}

	first, err := svc.Submit(context.Background(), payload)
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, "sub_1", first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Regexp(t, regexp.MustCompile(`^sub_1706778000000_[0-9a-f]{8}$`), second.ID)
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.submissionsTotal.WithLabelValues(string(models.FormEDispute))))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.idReassignedTotal))
}

func TestIntakeServiceUnknownFormTypeIsStoredVerbatim(t *testing.T) {
	store := repository.NewMemorySubmissionRepository()
	metrics := NewMetricsService()
	svc := newTestIntake(store, nil, metrics)

	res, err := svc.Submit(context.Background(), map[string]interface{}{"formType": "Loan Application", "accountNumber": "A"})
	require.NoError(t, err)
	sub, err := store.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormType("Loan Application"), sub.FormType)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.submissionsTotal.WithLabelValues("other")))
}

func TestIntakeServiceRejectsNilPayload(t *testing.T) {
	svc := newTestIntake(repository.NewMemorySubmissionRepository(), nil, nil)
	_, err := svc.Submit(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

type failingAppender struct{ err error }

func (f failingAppender) Append(context.Context, *models.Submission) error { return f.err }

func TestIntakeServiceStoreFailure(t *testing.T) {
	svc := newTestIntake(failingAppender{err: errors.New("disk full")}, nil, nil)
	_, err := svc.Submit(context.Background(), map[string]interface{}{"accountNumber": "A"})
	require.Error(t, err)
	assert.Equal(t, 500, appErrors.FromError(err).Status)
}

func TestIntakeServiceInvalidatesAccountCache(t *testing.T) {
	store := repository.NewMemorySubmissionRepository()
	cache := NewCacheService(repository.NewLocalCacheRepository(16, time.Minute), nil, time.Minute, nil, true)
	query := NewSubmissionService(store, cache, nil, nil)
	intake := newTestIntake(store, cache, nil)
	claims := &models.AdminClaims{UserID: "1", Username: "admin"}
	ctx := context.Background()

	_, err := intake.Submit(ctx, map[string]interface{}{"id": "s1", "accountNumber": "A"})
	require.NoError(t, err)

	first, hit, err := query.FindByAccount(ctx, claims, dto.SubmissionListQuery{AccountNumber: "A"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, first.Total)

	_, hit, err = query.FindByAccount(ctx, claims, dto.SubmissionListQuery{AccountNumber: "A"})
	require.NoError(t, err)
	assert.True(t, hit)

	_, err = intake.Submit(ctx, map[string]interface{}{"id": "s2", "accountNumber": "A"})
	require.NoError(t, err)

	after, hit, err := query.FindByAccount(ctx, claims, dto.SubmissionListQuery{AccountNumber: "A"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, after.Total)
}
