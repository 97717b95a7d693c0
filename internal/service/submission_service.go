package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/formdesk-api/internal/dto"
	"github.com/noah-isme/formdesk-api/internal/models"
	"github.com/noah-isme/formdesk-api/internal/repository"
	appErrors "github.com/noah-isme/formdesk-api/pkg/errors"
)

type submissionLister interface {
	ListByAccount(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error)
}

// SubmissionService answers the admin account search.
type SubmissionService struct {
	store     submissionLister
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(store submissionLister, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubmissionService{store: store, cache: cache, validator: validate, logger: logger}
}

// FindByAccount returns the account's submissions newest first. The bool reports a cache hit.
// An account with no submissions yields an empty list, not an error.
func (s *SubmissionService) FindByAccount(ctx context.Context, claims *models.AdminClaims, query dto.SubmissionListQuery) (*dto.SubmissionListResponse, bool, error) {
	if claims == nil {
		return nil, false, appErrors.ErrUnauthorized
	}
	query.AccountNumber = strings.TrimSpace(query.AccountNumber)
	if query.AccountNumber == "" {
		return nil, false, appErrors.Clone(appErrors.ErrBadRequest, "Account number is required")
	}
	if err := s.validator.Struct(query); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pagination parameters")
	}

	filter := models.SubmissionFilter{
		AccountNumber: query.AccountNumber,
		FormType:      models.FormType(strings.TrimSpace(query.FormType)),
		Page:          query.Page,
		PageSize:      query.PageSize,
	}
	key := s.cache.ListKey(filter)

	var cached dto.SubmissionListResponse
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	subs, total, err := s.store.ListByAccount(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	if subs == nil {
		subs = []models.Submission{}
	}

	resp := &dto.SubmissionListResponse{
		Submissions:   subs,
		Total:         total,
		AccountNumber: filter.AccountNumber,
	}
	if filter.Page > 0 || filter.PageSize > 0 {
		resp.Pagination = &dto.Pagination{Page: max(filter.Page, 1), PageSize: pageSizeOrMax(filter.PageSize)}
	}

	_ = s.cache.Set(ctx, key, resp, 0)
	s.logger.Debug("submissions listed",
		zap.String("admin_id", claims.UserID),
		zap.String("account_number", filter.AccountNumber),
		zap.Int("total", total),
	)
	return resp, false, nil
}

func pageSizeOrMax(size int) int {
	if size <= 0 || size > repository.MaxPageSize {
		return repository.MaxPageSize
	}
	return size
}
