package renderer

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// RowError reports a row task that failed or panicked
type RowError struct {
	Row   int
	Panic interface{} // Recovered panic value, nil for ordinary errors
	Stack []byte
	Err   error
}

func (e *RowError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("row %d panicked: %v", e.Row, e.Panic)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// WorkerPool runs row tasks on a bounded number of goroutines.
// The first failing task cancels the pool's context so the remaining rows stop early.
type WorkerPool struct {
	group      *errgroup.Group
	ctx        context.Context
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(ctx context.Context, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(numWorkers)

	return &WorkerPool{
		group:      group,
		ctx:        groupCtx,
		numWorkers: numWorkers,
	}
}

// Submit schedules a row task, blocking while every worker is busy.
// A panic inside the task is recovered and reported as a *RowError.
func (wp *WorkerPool) Submit(row int, task func(ctx context.Context) error) {
	wp.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &RowError{Row: row, Panic: r, Stack: debug.Stack()}
			}
		}()

		if err := task(wp.ctx); err != nil {
			return &RowError{Row: row, Err: err}
		}
		return nil
	})
}

// Wait blocks until every submitted task has returned and reports the first failure
func (wp *WorkerPool) Wait() error {
	return wp.group.Wait()
}


// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}
