package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"k8s.io/apimachinery/pkg/util/rand"

	"banneradmin/internal/panel"
	"banneradmin/pkg/logger"
)

const (
	stateKeyPrefix = "banneradmin:session:"
	lockKeyPrefix  = "banneradmin:lock:"
)

// 只删除自己持有的锁
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore 基于Redis的会话存储，多实例部署时共享状态和提交锁
type RedisStore struct {
	redisClient *redis.Client
	logger      *logger.Logger
}

// NewRedisStore 创建Redis会话存储
func NewRedisStore(redisClient *redis.Client, logger *logger.Logger) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Load 读取快照
func (s *RedisStore) Load(ctx context.Context, sid string) (*panel.State, error) {
	data, err := s.redisClient.Get(ctx, stateKeyPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sid, err)
	}

	var st panel.State
	if err := json.Unmarshal(data, &st); err != nil {
		// 快照损坏时当作新会话处理
		s.logger.Warn("会话快照解析失败", "sid", sid, "error", err)
		return nil, nil
	}
	return &st, nil
}

// Save 写入快照
func (s *RedisStore) Save(ctx context.Context, sid string, state panel.State, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sid, err)
	}
	if err := s.redisClient.Set(ctx, stateKeyPrefix+sid, data, ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", sid, err)
	}
	return nil
}

// Delete 删除快照
func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.redisClient.Del(ctx, stateKeyPrefix+sid).Err()
}

// Shared 所有实例读写同一个Redis
func (s *RedisStore) Shared() bool {
	return true
}

// Lock 使用 SET NX 获取会话锁
func (s *RedisStore) Lock(ctx context.Context, sid string, ttl time.Duration) (func(), error) {
	key := lockKeyPrefix + sid
	token := rand.String(16)

	ok, err := s.redisClient.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("lock session %s: %w", sid, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	return func() {
		// 请求上下文可能已经取消，释放锁使用独立的上下文
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := unlockScript.Run(releaseCtx, s.redisClient, []string{key}, token).Err(); err != nil {
			s.logger.Warn("释放会话锁失败", "sid", sid, "error", err)
		}
	}, nil
}
