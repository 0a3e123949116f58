package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// Job 在工作協程中執行的生成工作
type Job func(ctx context.Context) (string, error)

// Result 處理結果
type Result struct {
	Content string
	Error   error
}

// request 隊列請求
type request struct {
	ctx    context.Context
	job    Job
	result chan Result
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	Active         int64 `json:"active"`
	ProcessedCount int64 `json:"processed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 有界隊列加固定數量的工作協程，限制同時執行的生成數
type Manager struct {
	queue     chan *request
	workers   int
	maxSize   int
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	active    int64
	processed int64
}

// NewManager 創建隊列管理器並啟動工作協程
func NewManager(cfg *config.Config) *Manager {
	m := &Manager{
		queue:   make(chan *request, cfg.Queue.MaxSize),
		workers: cfg.Queue.Workers,
		maxSize: cfg.Queue.MaxSize,
		done:    make(chan struct{}),
	}

	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}

	common.LogInfo("請求隊列已啟動",
		zap.Int("workers", m.workers),
		zap.Int("max_queue_size", m.maxSize),
	)
	return m
}

// Submit 將工作加入隊列並等待結果；隊列已滿時立即返回 ErrQueueFull
func (m *Manager) Submit(ctx context.Context, job Job) (string, error) {
	select {
	case <-m.done:
		return "", common.ErrQueueClosed
	default:
	}

	req := &request{
		ctx:    ctx,
		job:    job,
		result: make(chan Result, 1),
	}

	select {
	case m.queue <- req:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.maxSize),
		)
	default:
		common.LogWarn("請求隊列已滿", zap.Int("max_queue_size", m.maxSize))
		return "", common.ErrQueueFull
	}

	select {
	case res := <-req.result:
		return res.Content, res.Error
	case <-ctx.Done():
		return "", ctx.Err()
	case <-m.done:
		return "", common.ErrQueueClosed
	}
}

func (m *Manager) worker() {
	defer m.wg.Done()

	for {
		select {
		case <-m.done:
			return
		case req := <-m.queue:
			if err := req.ctx.Err(); err != nil {
				req.result <- Result{Error: err}
				continue
			}

			atomic.AddInt64(&m.active, 1)
			content, err := req.job(req.ctx)
			atomic.AddInt64(&m.active, -1)
			atomic.AddInt64(&m.processed, 1)

			req.result <- Result{Content: content, Error: err}
		}
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() Status {
	return Status{
		QueueLength:    len(m.queue),
		Active:         atomic.LoadInt64(&m.active),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		MaxQueueSize:   m.maxSize,
		Workers:        m.workers,
	}
}

// Close 關閉隊列並等待工作協程結束
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	m.wg.Wait()
}
