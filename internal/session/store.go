// Package session 维护每个浏览器会话对应的 panel.Panel，并把状态快照持久化。
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"banneradmin/internal/panel"
)

// ErrLocked 会话锁已被占用
var ErrLocked = errors.New("session: locked")

// Store 会话快照存储
type Store interface {
	// Load 快照不存在时返回 nil, nil
	Load(ctx context.Context, sid string) (*panel.State, error)
	Save(ctx context.Context, sid string, state panel.State, ttl time.Duration) error
	Delete(ctx context.Context, sid string) error
	// Lock 获取会话锁，已被占用时返回 ErrLocked
	Lock(ctx context.Context, sid string, ttl time.Duration) (unlock func(), err error)
	// Shared 多个进程是否共用同一份快照
	Shared() bool
}

// expirer 需要主动清理过期数据的存储
type expirer interface {
	PurgeExpired() int
}

type memoryEntry struct {
	state     panel.State
	expiresAt time.Time
}

// MemoryStore 进程内存储，单实例部署和测试使用
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	locks   map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		locks:   make(map[string]time.Time),
		now:     time.Now,
	}
}

// Load 读取快照
func (s *MemoryStore) Load(_ context.Context, sid string) (*panel.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sid]
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.entries, sid)
		return nil, nil
	}
	st := e.state.Clone()
	return &st, nil
}

// Save 写入快照
func (s *MemoryStore) Save(_ context.Context, sid string, state panel.State, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{state: state.Clone()}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[sid] = e
	return nil
}

// Delete 删除快照
func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sid)
	return nil
}

// Lock 获取会话锁
func (s *MemoryStore) Lock(_ context.Context, sid string, ttl time.Duration) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if until, ok := s.locks[sid]; ok && s.now().Before(until) {
		return nil, ErrLocked
	}
	until := s.now().Add(ttl)
	s.locks[sid] = until

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.locks[sid] == until {
			delete(s.locks, sid)
		}
	}, nil
}

// Shared 进程内存储只属于当前实例
func (s *MemoryStore) Shared() bool {
	return false
}

// PurgeExpired 清理过期的快照和锁，返回清理的快照数
func (s *MemoryStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	purged := 0
	for sid, e := range s.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(s.entries, sid)
			purged++
		}
	}
	for sid, until := range s.locks {
		if !now.Before(until) {
			delete(s.locks, sid)
		}
	}
	return purged
}
