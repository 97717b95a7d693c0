package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/formdesk-api/pkg/errors"
)

type cachedList struct {
	IDs   []string `json:"ids"`
	Total int      `json:"total"`
}

func newRedisCache(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := NewCacheRepository(client, nil)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, mr
}

func TestCacheRepositoryRoundTrip(t *testing.T) {
	repo, mr := newRedisCache(t)
	ctx := context.Background()

	var out cachedList
	assert.ErrorIs(t, repo.Get(ctx, "submissions:account:A:all", &out), appErrors.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "submissions:account:A:all", cachedList{IDs: []string{"s1"}, Total: 1}, time.Minute))
	require.NoError(t, repo.Get(ctx, "submissions:account:A:all", &out))
	assert.Equal(t, []string{"s1"}, out.IDs)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, repo.Get(ctx, "submissions:account:A:all", &out), appErrors.ErrCacheMiss)
}

func TestCacheRepositoryDeleteByPrefix(t *testing.T) {
	repo, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "submissions:account:A:p1", cachedList{Total: 1}, time.Minute))
	require.NoError(t, repo.Set(ctx, "submissions:account:A:p2", cachedList{Total: 2}, time.Minute))
	require.NoError(t, repo.Set(ctx, "submissions:account:B:p1", cachedList{Total: 3}, time.Minute))

	require.NoError(t, repo.DeleteByPrefix(ctx, "submissions:account:A:"))
	assert.False(t, mr.Exists("submissions:account:A:p1"))
	assert.False(t, mr.Exists("submissions:account:A:p2"))
	assert.True(t, mr.Exists("submissions:account:B:p1"))
}

func TestCacheRepositoryDeleteByPrefixMatchesGlobCharactersLiterally(t *testing.T) {
	repo, mr := newRedisCache(t)
	ctx := context.Background()

	for _, key := range []string{
		"submissions:account:12[34:p1",
		"submissions:account:1*:p1",
		"submissions:account:13:p1",
		"submissions:account:1x:p1",
	} {
		require.NoError(t, repo.Set(ctx, key, cachedList{Total: 1}, time.Minute))
	}

	require.NoError(t, repo.DeleteByPrefix(ctx, "submissions:account:12[34:"))
	assert.False(t, mr.Exists("submissions:account:12[34:p1"))

	require.NoError(t, repo.DeleteByPrefix(ctx, "submissions:account:1*:"))
	assert.False(t, mr.Exists("submissions:account:1*:p1"))
	assert.True(t, mr.Exists("submissions:account:13:p1"))
	assert.True(t, mr.Exists("submissions:account:1x:p1"))
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `a\*b\?c\[d\]e\\f`, escapeGlob(`a*b?c[d]e\f`))
	assert.Equal(t, "plain:123:", escapeGlob("plain:123:"))
}

func TestCacheRepositoryNilClientMisses(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var out cachedList
	assert.ErrorIs(t, repo.Get(ctx, "k", &out), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "k", out, time.Minute))
	assert.NoError(t, repo.DeleteByPrefix(ctx, ""))
	assert.NoError(t, repo.Ping(ctx))
}

func TestCacheRepositoryReportsRedisFailure(t *testing.T) {
	repo, mr := newRedisCache(t)
	mr.Close()

	var out cachedList
	err := repo.Get(context.Background(), "k", &out)
	require.Error(t, err)
	assert.NotErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestLocalCacheRepository(t *testing.T) {
	repo := NewLocalCacheRepository(8, time.Minute)
	ctx := context.Background()

	var out cachedList
	assert.ErrorIs(t, repo.Get(ctx, "submissions:account:A:p1", &out), appErrors.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "submissions:account:A:p1", cachedList{IDs: []string{"s1"}}, 0))
	require.NoError(t, repo.Set(ctx, "submissions:account:B:p1", cachedList{IDs: []string{"s2"}}, 0))
	require.NoError(t, repo.Get(ctx, "submissions:account:A:p1", &out))
	assert.Equal(t, []string{"s1"}, out.IDs)

	out.IDs[0] = "mutated"
	var again cachedList
	require.NoError(t, repo.Get(ctx, "submissions:account:A:p1", &again))
	assert.Equal(t, "s1", again.IDs[0])

	require.NoError(t, repo.DeleteByPrefix(ctx, "submissions:account:A:"))
	assert.ErrorIs(t, repo.Get(ctx, "submissions:account:A:p1", &out), appErrors.ErrCacheMiss)
	assert.Equal(t, 1, repo.Len())
}

func TestLocalCacheRepositoryDeleteByPrefixIgnoresGlobSyntax(t *testing.T) {
	repo := NewLocalCacheRepository(8, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "submissions:account:12[34:p1", 1, 0))
	require.NoError(t, repo.Set(ctx, "submissions:account:1?:p1", 2, 0))
	require.NoError(t, repo.Set(ctx, "submissions:account:13:p1", 3, 0))

	require.NoError(t, repo.DeleteByPrefix(ctx, "submissions:account:12[34:"))
	require.NoError(t, repo.DeleteByPrefix(ctx, "submissions:account:1?:"))

	var v int
	assert.ErrorIs(t, repo.Get(ctx, "submissions:account:12[34:p1", &v), appErrors.ErrCacheMiss)
	assert.ErrorIs(t, repo.Get(ctx, "submissions:account:1?:p1", &v), appErrors.ErrCacheMiss)
	require.NoError(t, repo.Get(ctx, "submissions:account:13:p1", &v))
	assert.Equal(t, 3, v)
}

func TestLocalCacheRepositoryEvictsOldest(t *testing.T) {
	repo := NewLocalCacheRepository(2, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "a", 1, 0))
	require.NoError(t, repo.Set(ctx, "b", 2, 0))
	require.NoError(t, repo.Set(ctx, "c", 3, 0))

	var v int
	assert.ErrorIs(t, repo.Get(ctx, "a", &v), appErrors.ErrCacheMiss)
	require.NoError(t, repo.Get(ctx, "c", &v))
	assert.Equal(t, 3, v)
}
