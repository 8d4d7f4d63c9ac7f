package newsletter

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"go.uber.org/zap"
)

// job is one queued delivery.
type job struct {
	ctx context.Context
	msg *Message
}

// QueueStatus is a snapshot of the delivery queue.
type QueueStatus struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Queue fans newsletter sends out to a bounded worker pool so a slow
// mail provider cannot stall request handlers.
type Queue struct {
	config    *config.NewsletterConfig
	client    *MailClient
	jobs      chan *job
	processed int64
	mu        sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewQueue creates a delivery queue backed by the given mail client.
func NewQueue(cfg *config.NewsletterConfig, client *MailClient) *Queue {
	return &Queue{
		config: cfg,
		client: client,
		jobs:   make(chan *job, cfg.QueueSize),
	}
}

// Start launches the worker pool.
func (q *Queue) Start() {
	for i := 0; i < q.config.Workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	common.LogInfo("newsletter queue started",
		zap.Int("workers", q.config.Workers),
		zap.Int("max_queue_size", q.config.QueueSize),
	)
}

// Enqueue adds one message to the delivery queue. The read lock keeps
// Close from closing the channel while a send is in flight.
func (q *Queue) Enqueue(ctx context.Context, msg *Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return fmt.Errorf("newsletter queue is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case q.jobs <- &job{ctx: ctx, msg: msg}:
		return nil
	default:
		return fmt.Errorf("newsletter queue is full")
	}
}

// Status reports current queue depth and totals.
func (q *Queue) Status() *QueueStatus {
	return &QueueStatus{
		QueueLength:    len(q.jobs),
		ProcessedCount: int(atomic.LoadInt64(&q.processed)),
		MaxQueueSize:   q.config.QueueSize,
		Workers:        q.config.Workers,
	}
}

// Close stops accepting work, drains queued sends and waits for the
// workers to finish.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
		close(q.jobs)
	})
	q.wg.Wait()
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()
	for j := range q.jobs {
		if err := q.client.Send(j.ctx, j.msg); err != nil {
			common.LogWarn("newsletter send failed",
				zap.Int("worker", id),
				zap.String("to", j.msg.To),
				zap.Error(err),
			)
			continue
		}
		atomic.AddInt64(&q.processed, 1)
	}
}
