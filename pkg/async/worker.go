package async

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"banneradmin/pkg/logger"
)

var (
	// ErrQueueFull 任务队列已满
	ErrQueueFull = errors.New("async: task queue is full")
	// ErrStopped 工作器已停止
	ErrStopped = errors.New("async: worker stopped")
)

// Task 表示一个异步任务
type Task struct {
	ID       string
	Name     string
	Handler  func(ctx context.Context) error
	Timeout  time.Duration
	RetryMax int
}

// Worker 异步任务处理器
type Worker struct {
	taskQueue chan Task
	mu        sync.RWMutex
	stopped   bool
	stopOnce  sync.Once
	logger    *logger.Logger
	wg        sync.WaitGroup
	backoff   time.Duration
}

// NewWorker 创建一个新的工作器
func NewWorker(queueSize int, logger *logger.Logger) *Worker {
	return &Worker{
		taskQueue: make(chan Task, queueSize),
		logger:    logger,
		backoff:   time.Second,
	}
}

// Start 启动工作器
func (w *Worker) Start(numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.processTask()
	}
}

// Stop 停止接收新任务，等待队列中的任务执行完毕
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		close(w.taskQueue)
		w.mu.Unlock()
		w.wg.Wait()
	})
}

// Submit 将任务加入队列，队列满时不阻塞
func (w *Worker) Submit(task Task) (string, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return "", ErrStopped
	}
	select {
	case w.taskQueue <- task:
		return task.ID, nil
	default:
		return "", ErrQueueFull
	}
}


// processTask 处理任务的工作循环
func (w *Worker) processTask() {
	defer w.wg.Done()

	for task := range w.taskQueue {
		w.executeTask(task)
	}
}

// executeTask 执行单个任务
func (w *Worker) executeTask(task Task) {
	start := time.Now()

	w.logger.Debug("开始执行异步任务", "task_id", task.ID, "name", task.Name)

	var err error
	for attempt := 0; attempt <= task.RetryMax; attempt++ {
		if attempt > 0 {
			w.logger.Info("重试异步任务", "task_id", task.ID, "attempt", attempt)
			time.Sleep(w.backoff * time.Duration(attempt))
		}

		err = w.run(task)
		if err == nil {
			break
		}

		w.logger.Warn("异步任务执行失败", "task_id", task.ID, "attempt", attempt, "error", err)
	}

	if err != nil {
		w.logger.Error("异步任务最终失败", "task_id", task.ID, "name", task.Name, "error", err)
	} else {
		w.logger.Debug("异步任务完成", "task_id", task.ID, "duration", time.Since(start))
	}
}

// run 执行一次处理函数，每次尝试单独计算超时，panic 转为错误
func (w *Worker) run(task Task) (err error) {
	ctx := context.Background()
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.New("task panicked")
			w.logger.Error("异步任务panic", "task_id", task.ID, "panic", r)
		}
	}()
	return task.Handler(ctx)
}
