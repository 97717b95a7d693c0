package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/formdesk-api/internal/dto"
	"github.com/noah-isme/formdesk-api/internal/models"
	"github.com/noah-isme/formdesk-api/internal/repository"
	appErrors "github.com/noah-isme/formdesk-api/pkg/errors"
)

const maxIDAttempts = 3

// Envelope keys of an intake payload. Everything else is form data.
var reservedIntakeKeys = map[string]struct{}{
	"id":               {},
	"formType":         {},
	"submittedAt":      {},
	"formData":         {},
	"officialComments": {},
	"lastUpdatedBy":    {},
	"lastUpdatedAt":    {},
}

type intakeStore interface {
	Append(ctx context.Context, sub *models.Submission) error
}

// IntakeService accepts filled forms from the public form flow.
type IntakeService struct {
	store   intakeStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewIntakeService constructs an IntakeService.
func NewIntakeService(store intakeStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *IntakeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeService{store: store, cache: cache, metrics: metrics, logger: logger, now: time.Now}
}

// Submit stores the payload as a new submission and returns its id. The payload shape is not
// validated. A client id that is already taken is replaced rather than rejected.
func (s *IntakeService) Submit(ctx context.Context, payload map[string]interface{}) (*dto.SubmitResponse, error) {
	if payload == nil {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "Submission payload must be a JSON object")
	}

	now := s.now().UTC()
	sub := s.normalize(payload, now)
	requestedID := sub.ID

	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if err = s.store.Append(ctx, sub); !errors.Is(err, repository.ErrSubmissionExists) {
			break
		}
		sub.ID = fmt.Sprintf("sub_%d_%s", now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save submission")
	}

	reassigned := sub.ID != requestedID
	if reassigned {
		s.logger.Warn("submission id already taken, reassigned", zap.String("requested_id", requestedID), zap.String("submission_id", sub.ID))
	}
	_ = s.cache.InvalidateAccount(ctx, sub.AccountNumber)
	s.metrics.RecordSubmission(sub.FormType, reassigned)
	s.logger.Info("submission received",
		zap.String("submission_id", sub.ID),
		zap.String("form_type", string(sub.FormType)),
		zap.String("account_number", sub.AccountNumber),
	)

	return &dto.SubmitResponse{Message: "Submission saved successfully", ID: sub.ID}, nil
}

func (s *IntakeService) normalize(payload map[string]interface{}, now time.Time) *models.Submission {
	sub := &models.Submission{
		ID:       stringField(payload, "id"),
		FormType: models.FormType(stringField(payload, "formType")),
	}
	if sub.ID == "" {
		sub.ID = fmt.Sprintf("sub_%d", now.UnixMilli())
	}

	sub.SubmittedAt = now
	if raw := stringField(payload, "submittedAt"); raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			sub.SubmittedAt = t.UTC()
		}
	}

	data := models.FormData{}
	if nested, ok := payload["formData"].(map[string]interface{}); ok {
		for k, v := range nested {
			data[k] = v
		}
	}
	for k, v := range payload {
		if _, reserved := reservedIntakeKeys[k]; reserved {
			continue
		}
		if _, exists := data[k]; !exists {
			data[k] = v
		}
	}
	sub.FormData = data

	sub.AccountNumber = stringField(payload, "accountNumber")
	if sub.AccountNumber == "" {
		sub.AccountNumber = stringField(data, "accountNumber")
	}
	return sub
}

func stringField(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return fmt.Sprintf("%.0f", typed)
	default:
		return ""
	}
}
