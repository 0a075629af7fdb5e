package reconcile

import (
	"context"
)

type WorkerPoolI interface {
	AddTask(ctx context.Context, task Task) error
}

type Task func() error

// WorkerPool bounds sweep concurrency with a semaphore. Tasks run on the
// caller's goroutine, so a sweep that waits on its errgroup has also
// waited for every task to finish and its report is complete.
type WorkerPool struct {
	sem chan struct{}
}

func NewWorkerPool(size int) *WorkerPool {
	return &WorkerPool{sem: make(chan struct{}, size)}
}

func (wp *WorkerPool) AddTask(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case wp.sem <- struct{}{}:
	}
	defer func() { <-wp.sem }()
	return task()
}
