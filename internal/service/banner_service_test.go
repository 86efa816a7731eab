package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"banneradmin/internal/model"
	"banneradmin/pkg/logger"
)

type MockBannerRepository struct {
	mock.Mock
}

func (m *MockBannerRepository) List(ctx context.Context) ([]model.Banner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Banner), args.Error(1)
}

func (m *MockBannerRepository) GetByID(ctx context.Context, id string) (*model.Banner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Banner), args.Error(1)
}

func (m *MockBannerRepository) Create(ctx context.Context, b *model.Banner) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBannerRepository) Update(ctx context.Context, b *model.Banner) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBannerRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newTestService(repo BannerRepository) *BannerService {
	s := NewBannerService(repo, nil, nil, time.Minute, logger.NewNop())
	s.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestCreateAssignsIDAndDate(t *testing.T) {
	repo := new(MockBannerRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Banner")).Return(nil)
	s := newTestService(repo)

	created, err := s.Create(context.Background(), model.Banner{ID: "client-id", Name: "Summer"})
	require.NoError(t, err)

	_, parseErr := uuid.Parse(created.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, "16/10/2026", created.CreateDate)
	assert.Equal(t, model.StatusShown, created.Status)
	assert.Equal(t, []string{}, created.Texts)
	repo.AssertExpectations(t)
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	repo := new(MockBannerRepository)
	s := newTestService(repo)

	_, err := s.Create(context.Background(), model.Banner{Status: "Unknown"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateKeepsExistingDate(t *testing.T) {
	repo := new(MockBannerRepository)
	repo.On("GetByID", mock.Anything, "b1").Return(&model.Banner{ID: "b1", CreateDate: "01/01/2025"}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(b *model.Banner) bool {
		return b.ID == "b1" && b.CreateDate == "01/01/2025"
	})).Return(nil)
	s := newTestService(repo)

	updated, err := s.Update(context.Background(), "b1", model.Banner{Name: "Renamed", Status: model.StatusPaused})
	require.NoError(t, err)
	assert.Equal(t, "b1", updated.ID)
	assert.Equal(t, "01/01/2025", updated.CreateDate)
	repo.AssertExpectations(t)
}

func TestUpdateMissingBanner(t *testing.T) {
	notFound := errors.New("not found")
	repo := new(MockBannerRepository)
	repo.On("GetByID", mock.Anything, "nope").Return(nil, notFound)
	s := newTestService(repo)

	_, err := s.Update(context.Background(), "nope", model.Banner{})
	assert.ErrorIs(t, err, notFound)
}

func TestListWithoutCache(t *testing.T) {
	repo := new(MockBannerRepository)
	repo.On("List", mock.Anything).Return([]model.Banner{{ID: "1"}, {ID: "2"}}, nil).Twice()
	s := newTestService(repo)

	for i := 0; i < 2; i++ {
		banners, err := s.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, banners, 2)
	}
	repo.AssertExpectations(t)
}

func TestDeletePropagatesError(t *testing.T) {
	repo := new(MockBannerRepository)
	repo.On("Delete", mock.Anything, "x").Return(errors.New("db down"))
	s := newTestService(repo)

	assert.Error(t, s.Delete(context.Background(), "x"))
	assert.NoError(t, s.InvalidateCache(context.Background()))
}
