package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"banneradmin/internal/model"
	"banneradmin/pkg/async"
	"banneradmin/pkg/logger"
)

const (
	bannerListCacheKey   = "banners:list"
	bannerDetailCacheKey = "banners:detail:%s"
	bannerCachePattern   = "banners:*"
	invalidateRetries    = 2
)

// ErrInvalidStatus 状态不是已知取值
var ErrInvalidStatus = errors.New("invalid banner status")

// BannerRepository banner持久化
type BannerRepository interface {
	List(ctx context.Context) ([]model.Banner, error)
	GetByID(ctx context.Context, id string) (*model.Banner, error)
	Create(ctx context.Context, b *model.Banner) error
	Update(ctx context.Context, b *model.Banner) error
	Delete(ctx context.Context, id string) error
}

// BannerService banner服务。redisClient 为 nil 时不使用缓存。
type BannerService struct {
	bannerRepo  BannerRepository
	redisClient *redis.Client
	worker      *async.Worker
	logger      *logger.Logger
	cacheTTL    time.Duration
	now         func() time.Time
}

// NewBannerService 创建banner服务实例
func NewBannerService(bannerRepo BannerRepository, redisClient *redis.Client, worker *async.Worker, cacheTTL time.Duration, logger *logger.Logger) *BannerService {
	return &BannerService{
		bannerRepo:  bannerRepo,
		redisClient: redisClient,
		worker:      worker,
		logger:      logger,
		cacheTTL:    cacheTTL,
		now:         time.Now,
	}
}

// List 获取全部banner
func (s *BannerService) List(ctx context.Context) ([]model.Banner, error) {
	var cached []model.Banner
	if s.getCache(ctx, bannerListCacheKey, &cached) {
		return cached, nil
	}

	banners, err := s.bannerRepo.List(ctx)
	if err != nil {
		s.logger.Error("获取banner列表失败", "error", err)
		return nil, err
	}

	s.setCache(ctx, bannerListCacheKey, banners)
	return banners, nil
}

// Get 根据ID获取banner
func (s *BannerService) Get(ctx context.Context, id string) (*model.Banner, error) {
	cacheKey := fmt.Sprintf(bannerDetailCacheKey, id)
	var cached model.Banner
	if s.getCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	banner, err := s.bannerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.setCache(ctx, cacheKey, banner)
	return banner, nil
}

// Create 创建banner，生成ID，未提供日期时使用当天
func (s *BannerService) Create(ctx context.Context, banner model.Banner) (*model.Banner, error) {
	if err := s.normalize(&banner); err != nil {
		return nil, err
	}
	banner.ID = uuid.NewString()

	if err := s.bannerRepo.Create(ctx, &banner); err != nil {
		s.logger.Error("创建banner失败", "error", err)
		return nil, err
	}
	s.invalidate(ctx, banner.ID)
	return &banner, nil
}

// Update 整体替换banner，未提供日期时保留原日期
func (s *BannerService) Update(ctx context.Context, id string, banner model.Banner) (*model.Banner, error) {
	banner.ID = id
	if banner.CreateDate == "" {
		existing, err := s.bannerRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		banner.CreateDate = existing.CreateDate
	}
	if err := s.normalize(&banner); err != nil {
		return nil, err
	}

	if err := s.bannerRepo.Update(ctx, &banner); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return &banner, nil
}

// Delete 删除banner
func (s *BannerService) Delete(ctx context.Context, id string) error {
	if err := s.bannerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// InvalidateCache 删除所有banner缓存
func (s *BannerService) InvalidateCache(ctx context.Context) error {
	if s.redisClient == nil {
		return nil
	}
	iter := s.redisClient.Scan(ctx, 0, bannerCachePattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Error("删除缓存失败", "key", iter.Val(), "error", err)
		}
	}
	return iter.Err()
}

func (s *BannerService) normalize(b *model.Banner) error {
	if b.Status == "" {
		b.Status = model.StatusShown
	}
	if !b.Status.Valid() {
		return ErrInvalidStatus
	}
	if b.Texts == nil {
		b.Texts = []string{}
	}
	if b.CreateDate == "" {
		b.CreateDate = s.now().Format(model.CreateDateLayout)
	}
	return nil
}

// invalidate 同步删除列表和详情缓存，其余键交给工作器扫描清理
func (s *BannerService) invalidate(ctx context.Context, id string) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, bannerListCacheKey, fmt.Sprintf(bannerDetailCacheKey, id)).Err(); err != nil {
		s.logger.Warn("删除banner缓存失败", "id", id, "error", err)
	}
	if s.worker == nil {
		return
	}
	task := async.Task{
		Name:     "invalidate banner cache",
		Handler:  s.InvalidateCache,
		Timeout:  10 * time.Second,
		RetryMax: invalidateRetries,
	}
	if _, err := s.worker.Submit(task); err != nil {
		s.logger.Warn("提交缓存清理任务失败", "error", err)
	}
}

func (s *BannerService) getCache(ctx context.Context, key string, out interface{}) bool {
	if s.redisClient == nil {
		return false
	}
	data, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("读取缓存失败", "key", key, "error", err)
		}
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (s *BannerService) setCache(ctx context.Context, key string, value interface{}) {
	if s.redisClient == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("写入缓存失败", "key", key, "error", err)
	}
}
