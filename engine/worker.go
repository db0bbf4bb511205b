package engine

import (
	"context"
	"sync"
	"time"
)

// Task is a named unit of pipeline work. Run writes its output through the
// closure; the pool never touches stage outputs.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// TaskResult reports how one task finished.
type TaskResult struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Pool executes independent pipeline stages with bounded concurrency.
// A single pool is shared across requests; it holds no per-run state.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given number of workers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// RunAll executes the tasks concurrently, each under its own timeout, and
// returns results in task order regardless of completion order. A timed-out
// or failed task reports its error; RunAll itself only fails through the
// parent context.
func (p *Pool) RunAll(ctx context.Context, timeout time.Duration, tasks []Task) []TaskResult {
	results := make([]TaskResult, len(tasks))
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = TaskResult{Name: task.Name, Err: ctx.Err()}
				return
			}

			taskCtx := ctx
			var cancel context.CancelFunc
			if timeout > 0 {
				taskCtx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			start := time.Now()
			err := task.Run(taskCtx)
			if err == nil && taskCtx.Err() != nil {
				err = taskCtx.Err()
			}
			results[i] = TaskResult{Name: task.Name, Err: err, Duration: time.Since(start)}
		}(i, task)
	}

	wg.Wait()
	return results
}
