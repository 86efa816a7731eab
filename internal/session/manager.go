package session

import (
	"context"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/util/rand"

	"banneradmin/internal/panel"
	"banneradmin/pkg/logger"
)

// 会话ID长度
const idLength = 32

// 提交锁的最长持有时间
const submitLockTTL = 30 * time.Second

// 清理时删除快照的超时
const sweepTimeout = 5 * time.Second

type entry struct {
	panel    *panel.Panel
	lastSeen time.Time
}

// Manager 会话管理器。
// 进程内存储时活跃会话常驻内存；共享存储时每次请求都读取 Store 中的最新快照，
// 同一会话可以由不同实例交替处理。
type Manager struct {
	mu      sync.Mutex
	panels  map[string]*entry
	store   Store
	service panel.BannerService
	logger  *logger.Logger
	ttl     time.Duration
	opts    []panel.Option
	now     func() time.Time
}

// NewManager 创建会话管理器
func NewManager(store Store, service panel.BannerService, logger *logger.Logger, ttl time.Duration, opts ...panel.Option) *Manager {
	return &Manager{
		panels:  make(map[string]*entry),
		store:   store,
		service: service,
		logger:  logger,
		ttl:     ttl,
		opts:    opts,
		now:     time.Now,
	}
}

// NewID 生成随机会话ID
func (m *Manager) NewID() string {
	return rand.String(idLength)
}

// Get 返回会话对应的 Panel
func (m *Manager) Get(ctx context.Context, sid string) *panel.Panel {
	if m.store.Shared() {
		return m.load(ctx, sid)
	}

	m.mu.Lock()
	if e, ok := m.panels[sid]; ok {
		e.lastSeen = m.now()
		m.mu.Unlock()
		return e.panel
	}
	m.mu.Unlock()

	p := m.load(ctx, sid)

	m.mu.Lock()
	defer m.mu.Unlock()
	// 并发请求可能已经放入
	if e, ok := m.panels[sid]; ok {
		e.lastSeen = m.now()
		return e.panel
	}
	m.panels[sid] = &entry{panel: p, lastSeen: m.now()}
	return p
}

// load 从快照恢复，没有快照时新建
func (m *Manager) load(ctx context.Context, sid string) *panel.Panel {
	st, err := m.store.Load(ctx, sid)
	if err != nil {
		m.logger.Warn("读取会话快照失败，创建新会话", "sid", sid, "error", err)
	}
	if st != nil {
		return panel.Restore(*st, m.service, m.logger, m.opts...)
	}
	return panel.New(m.service, m.logger, m.opts...)
}

// Save 持久化会话快照
func (m *Manager) Save(ctx context.Context, sid string, p *panel.Panel) {
	if err := m.store.Save(ctx, sid, p.Snapshot(), m.ttl); err != nil {
		m.logger.Error("保存会话快照失败", "sid", sid, "error", err)
	}
}

// LockSubmit 获取跨实例的提交锁
func (m *Manager) LockSubmit(ctx context.Context, sid string) (func(), error) {
	return m.store.Lock(ctx, sid, submitLockTTL)
}

// Len 内存中的会话数
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.panels)
}

// Sweep 移除空闲超过 ttl 的会话及其快照，并清理存储中已过期的数据
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var evicted []string
	for sid, e := range m.panels {
		if e.lastSeen.Before(cutoff) && !e.panel.Snapshot().Busy {
			delete(m.panels, sid)
			evicted = append(evicted, sid)
		}
	}
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()
	for _, sid := range evicted {
		if err := m.store.Delete(ctx, sid); err != nil {
			m.logger.Warn("删除会话快照失败", "sid", sid, "error", err)
		}
	}

	if e, ok := m.store.(expirer); ok {
		if purged := e.PurgeExpired(); purged > 0 {
			m.logger.Debug("清理过期会话快照", "purged", purged)
		}
	}
	return len(evicted)
}
