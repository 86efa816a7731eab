package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"banneradmin/internal/model"
	"banneradmin/pkg/async"
	"banneradmin/pkg/logger"
)

func newCachedService(t *testing.T, repo BannerRepository) (*BannerService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewBannerService(repo, client, nil, time.Minute, logger.NewNop())
	s.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	return s, mr
}

func TestListReadThroughCache(t *testing.T) {
	repo := new(MockBannerRepository)
	repo.On("List", mock.Anything).Return([]model.Banner{{ID: "1", Name: "A", Texts: []string{"x"}}}, nil).Once()
	s, mr := newCachedService(t, repo)
	ctx := context.Background()

	first, err := s.List(ctx)
	require.NoError(t, err)
	second, err := s.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "List", 1)
	assert.True(t, mr.Exists(bannerListCacheKey))
	assert.Equal(t, time.Minute, mr.TTL(bannerListCacheKey))
}

func TestGetReadThroughCache(t *testing.T) {
	repo := new(MockBannerRepository)
	repo.On("GetByID", mock.Anything, "b1").Return(&model.Banner{ID: "b1", Name: "A"}, nil).Once()
	s, mr := newCachedService(t, repo)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		b, err := s.Get(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, "A", b.Name)
	}
	repo.AssertNumberOfCalls(t, "GetByID", 1)
	assert.True(t, mr.Exists("banners:detail:b1"))
}

func TestCorruptCacheFallsBackToRepository(t *testing.T) {
	repo := new(MockBannerRepository)
	repo.On("List", mock.Anything).Return([]model.Banner{{ID: "1"}}, nil).Once()
	s, mr := newCachedService(t, repo)
	require.NoError(t, mr.Set(bannerListCacheKey, "{not json"))

	banners, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, banners, 1)

	raw, err := mr.Get(bannerListCacheKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"id":"1"`)
}

func TestWritesInvalidateCache(t *testing.T) {
	repo := new(MockBannerRepository)
	repo.On("List", mock.Anything).Return([]model.Banner{{ID: "b1"}}, nil)
	repo.On("GetByID", mock.Anything, "b1").Return(&model.Banner{ID: "b1", CreateDate: "01/01/2025"}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)
	repo.On("Delete", mock.Anything, "b1").Return(nil)
	s, mr := newCachedService(t, repo)
	ctx := context.Background()
	detailKey := "banners:detail:b1"

	warm := func() {
		t.Helper()
		_, err := s.List(ctx)
		require.NoError(t, err)
		_, err = s.Get(ctx, "b1")
		require.NoError(t, err)
		require.True(t, mr.Exists(bannerListCacheKey))
		require.True(t, mr.Exists(detailKey))
	}

	warm()
	_, err := s.Create(ctx, model.Banner{Name: "New"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(bannerListCacheKey))

	warm()
	_, err = s.Update(ctx, "b1", model.Banner{Name: "Renamed"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(bannerListCacheKey))
	assert.False(t, mr.Exists(detailKey))

	warm()
	require.NoError(t, s.Delete(ctx, "b1"))
	assert.False(t, mr.Exists(bannerListCacheKey))
	assert.False(t, mr.Exists(detailKey))
}

func TestWriteQueuesFullCacheSweep(t *testing.T) {
	repo := new(MockBannerRepository)
	repo.On("Delete", mock.Anything, "b1").Return(nil)
	s, mr := newCachedService(t, repo)

	worker := async.NewWorker(10, logger.NewNop())
	worker.Start(1)
	s.worker = worker

	require.NoError(t, mr.Set("banners:detail:other", "{}"))
	require.NoError(t, mr.Set("sessions:unrelated", "keep"))

	require.NoError(t, s.Delete(context.Background(), "b1"))
	worker.Stop()

	assert.False(t, mr.Exists("banners:detail:other"))
	assert.True(t, mr.Exists("sessions:unrelated"))
}
