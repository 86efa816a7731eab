package scheduler

import (
	"time"

	"banneradmin/pkg/logger"
)

// Sweeper 可以被定期清理的对象
type Sweeper interface {
	Sweep() int
	Len() int
}

// SessionScheduler 定期把空闲会话移出内存
type SessionScheduler struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *logger.Logger
	quit     chan struct{}
	done     chan struct{}
}

const defaultSweepInterval = 5 * time.Minute

// NewSessionScheduler 创建会话清理调度器
func NewSessionScheduler(sweeper Sweeper, interval time.Duration, logger *logger.Logger) *SessionScheduler {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &SessionScheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start 启动调度器
func (s *SessionScheduler) Start() {
	go s.run()
	s.logger.Info("会话清理调度器启动", "interval", s.interval)
}

// Stop 停止调度器并等待当前清理完成
func (s *SessionScheduler) Stop() {
	close(s.quit)
	<-s.done
	s.logger.Info("会话清理调度器停止")
}

func (s *SessionScheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.quit:
			return
		}
	}
}

func (s *SessionScheduler) sweep() {
	evicted := s.sweeper.Sweep()
	if evicted > 0 {
		s.logger.Info("清理空闲会话", "evicted", evicted, "remaining", s.sweeper.Len())
	}
}
