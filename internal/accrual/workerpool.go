package accrual

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

//go:generate mockgen -source=workerpool.go -destination=mock_workerpool.go -package=accrual

type WorkerPoolI interface {
	AddTask(ctx context.Context, task Task) error
	Close()
}

type Task func() error

var ErrPoolClosed = errors.New("worker pool is closed")

// WorkerPool runs submitted tasks on a fixed number of goroutines. With a
// single worker tasks run strictly one after another.
type WorkerPool struct {
	tasks chan Task
	quit  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	wp := &WorkerPool{
		tasks: make(chan Task),
		quit:  make(chan struct{}),
	}

	wp.wg.Add(size)
	for i := 0; i < size; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for {
		select {
		case <-wp.quit:
			return
		case task := <-wp.tasks:
			if err := task(); err != nil {
				zap.L().Warn("task execution failed", zap.Error(err))
			}
		}
	}
}

// AddTask blocks until a worker picks the task up, ctx is done or the pool closes.
func (wp *WorkerPool) AddTask(ctx context.Context, task Task) error {
	select {
	case <-wp.quit:
		return ErrPoolClosed
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.quit:
		return ErrPoolClosed
	case wp.tasks <- task:
		return nil
	}
}

// Close stops the workers after their current task. Safe to call twice.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		close(wp.quit)
	})
	wp.wg.Wait()
}
