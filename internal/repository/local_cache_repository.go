package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	appErrors "github.com/noah-isme/formdesk-api/pkg/errors"
)

// LocalCacheRepository is the in-process fallback used when Redis is not configured.
// Values are stored JSON encoded so readers never share memory with the writer.
type LocalCacheRepository struct {
	cache *expirable.LRU[string, []byte]
}

// NewLocalCacheRepository builds an LRU holding at most size entries, each living ttl.
// The per-call ttl of Set is ignored; every entry shares the constructor ttl.
func NewLocalCacheRepository(size int, ttl time.Duration) *LocalCacheRepository {
	if size <= 0 {
		size = 512
	}
	return &LocalCacheRepository{cache: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (r *LocalCacheRepository) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := r.cache.Get(key)
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

func (r *LocalCacheRepository) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}
	r.cache.Add(key, payload)
	return nil
}

// DeleteByPrefix removes every key starting with prefix.
func (r *LocalCacheRepository) DeleteByPrefix(_ context.Context, prefix string) error {
	for _, key := range r.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Remove(key)
		}
	}
	return nil
}

// Len reports the number of live entries.
func (r *LocalCacheRepository) Len() int {
	return r.cache.Len()
}
