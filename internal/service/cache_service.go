package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/formdesk-api/internal/models"
	appErrors "github.com/noah-isme/formdesk-api/pkg/errors"
)

const accountKeyPrefix = "submissions:account:"

// CacheRepository abstracts the Redis and in-process cache backends.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// CacheService caches admin search results per account. Every failure is logged and
// swallowed by callers; the store stays the source of truth.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool

	mu          sync.Mutex
	generations map[string]uint64
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		repo:        repo,
		metrics:     metrics,
		defaultTTL:  defaultTTL,
		logger:      logger,
		enabled:     enabled,
		generations: make(map[string]uint64),
	}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// AccountListKey identifies one search result page for an account at the given generation.
func AccountListKey(filter models.SubmissionFilter, generation uint64) string {
	formType := string(filter.FormType)
	if formType == "" {
		formType = "all"
	}
	return fmt.Sprintf("%sg%d:%s:%d:%d", AccountPrefix(filter.AccountNumber), generation, formType, filter.Page, filter.PageSize)
}

// AccountPrefix is shared by every cached page of an account.
func AccountPrefix(accountNumber string) string {
	return accountKeyPrefix + accountNumber + ":"
}

// ListKey returns the key for filter under the account's current generation.
// Take it before reading the store: an invalidation in between moves the
// generation on, so a result computed from stale rows is written where no
// later lookup reads it.
func (s *CacheService) ListKey(filter models.SubmissionFilter) string {
	if s == nil {
		return AccountListKey(filter, 0)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return AccountListKey(filter, s.generations[filter.AccountNumber])
}

// Get returns true on a hit. Misses return (false, nil).
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}

// Set stores the value; ttl <= 0 uses the configured default.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// InvalidateAccount drops every cached page for the account. The generation
// advances even when the backend delete fails.
func (s *CacheService) InvalidateAccount(ctx context.Context, accountNumber string) error {
	if s == nil || accountNumber == "" {
		return nil
	}
	s.mu.Lock()
	s.generations[accountNumber]++
	s.mu.Unlock()

	if !s.Enabled() {
		return nil
	}
	prefix := AccountPrefix(accountNumber)
	if err := s.repo.DeleteByPrefix(ctx, prefix); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("prefix", prefix), zap.Error(err))
		return err
	}
	return nil
}
