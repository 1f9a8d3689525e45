package governor

import (
	"context"
	"sync"

	"github.com/kbukum/harvest/errors"
)

// Governor admits units of work under a concurrency policy.
//
// Execute blocks the calling goroutine until the policy admits fn, runs it and
// returns its error. The admission is released on every exit path. A panic in
// fn is recovered and returned as a TASK_ABORTED error. The context is passed
// through to fn untouched; a governor never cancels or times out work.
type Governor interface {
	Execute(ctx context.Context, fn func(context.Context) error) error
	// Limit is the maximum number of units admitted at once, 0 when unbounded.
	Limit() int
	// InUse is the number of units currently admitted.
	InUse() int
	Name() string
}

// Task is one fallible asynchronous unit of work.
type Task[T any] func(ctx context.Context) (T, error)

// Result is the outcome of one Task.
//
// Aborted is set when the task never returned normally (it panicked). Err is
// then the governor's TASK_ABORTED error. Otherwise Err is whatever the task
// returned.
type Result[T any] struct {
	Value   T
	Err     error
	Aborted bool
}

// OK reports whether the task succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// Run launches every task through g and waits for all of them. results[i]
// belongs to tasks[i] regardless of completion order. One failing or
// panicking task never prevents the others from running.
func Run[T any](ctx context.Context, g Governor, tasks []Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))
	if len(tasks) == 0 {
		return results
	}

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, task := range tasks {
		go func() {
			defer wg.Done()
			results[i] = ExecuteWithResult(ctx, g, task)
		}()
	}
	wg.Wait()
	return results
}

// ExecuteWithResult runs a single value-returning task through g.
func ExecuteWithResult[T any](ctx context.Context, g Governor, task Task[T]) Result[T] {
	var (
		res       Result[T]
		completed bool
	)
	err := g.Execute(ctx, func(ctx context.Context) error {
		v, taskErr := task(ctx)
		res.Value, res.Err, completed = v, taskErr, true
		return taskErr
	})
	if !completed {
		if err == nil {
			err = errors.TaskAborted("task was not run")
		}
		res.Err = err
		res.Aborted = true
	}
	return res
}
