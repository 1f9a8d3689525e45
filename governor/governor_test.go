package governor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/kbukum/harvest/errors"
)

// peakTracker tracks the highest number of concurrently active tasks.
type peakTracker struct {
	active atomic.Int32
	peak   atomic.Int32
}

func (p *peakTracker) enter() {
	n := p.active.Add(1)
	for {
		old := p.peak.Load()
		if n <= old || p.peak.CompareAndSwap(old, n) {
			return
		}
	}
}

func (p *peakTracker) leave() { p.active.Add(-1) }

func sleepTask(p *peakTracker, d time.Duration, v int) Task[int] {
	return func(ctx context.Context) (int, error) {
		p.enter()
		defer p.leave()
		time.Sleep(d)
		return v, nil
	}
}

func TestBounded_NeverExceedsCapacity(t *testing.T) {
	g := NewBounded(2)
	var tracker peakTracker

	tasks := make([]Task[int], 5)
	for i := range tasks {
		tasks[i] = sleepTask(&tracker, 20*time.Millisecond, i)
	}
	results := Run(context.Background(), g, tasks)

	if got := tracker.peak.Load(); got > 2 {
		t.Errorf("expected at most 2 concurrent tasks, observed %d", got)
	}
	if got := tracker.peak.Load(); got < 2 {
		t.Errorf("expected capacity to be used, observed peak %d", got)
	}
	for i, r := range results {
		if r.Err != nil || r.Value != i {
			t.Errorf("result %d: got (%d, %v)", i, r.Value, r.Err)
		}
	}
	if g.InUse() != 0 || g.Available() != 2 {
		t.Errorf("expected all permits returned, in use %d available %d", g.InUse(), g.Available())
	}
}

func TestBounded_FailingTaskReleasesPermit(t *testing.T) {
	g := NewBounded(1)
	boom := errors.New("boom")

	tasks := []Task[int]{
		func(ctx context.Context) (int, error) { return 0, boom },
		func(ctx context.Context) (int, error) { return 2, nil },
	}
	done := make(chan []Result[int])
	go func() { done <- Run(context.Background(), g, tasks) }()

	select {
	case results := <-done:
		if !errors.Is(results[0].Err, boom) || results[0].Aborted {
			t.Errorf("expected first task to fail with boom, got %+v", results[0])
		}
		if results[1].Err != nil || results[1].Value != 2 {
			t.Errorf("expected second task to succeed, got %+v", results[1])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second task never ran; permit was not released")
	}
}

func TestBounded_PanicIsAbortedAndReleasesPermit(t *testing.T) {
	g := NewBounded(1, WithLogger(nopLogger()))

	tasks := []Task[string]{
		func(ctx context.Context) (string, error) { panic("kaboom") },
		func(ctx context.Context) (string, error) { return "ok", nil },
	}
	results := Run(context.Background(), g, tasks)

	if !results[0].Aborted {
		t.Fatalf("expected aborted result, got %+v", results[0])
	}
	if !apperrors.IsCode(results[0].Err, apperrors.ErrCodeTaskAborted) {
		t.Errorf("expected TASK_ABORTED, got %v", results[0].Err)
	}
	if results[1].Err != nil || results[1].Value != "ok" {
		t.Errorf("expected sibling to succeed, got %+v", results[1])
	}
	if g.InUse() != 0 {
		t.Errorf("expected 0 in use, got %d", g.InUse())
	}
}

func TestBounded_ReleaseWithoutAcquirePanics(t *testing.T) {
	g := NewBounded(1)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on unmatched release")
		}
	}()
	g.release()
}

func TestBounded_DefaultCapacity(t *testing.T) {
	for _, n := range []int{0, -3} {
		if got := NewBounded(n).Limit(); got != DefaultMaxConcurrent {
			t.Errorf("NewBounded(%d).Limit() = %d, want %d", n, got, DefaultMaxConcurrent)
		}
	}
}

func TestBounded_AvailableAndInUse(t *testing.T) {
	g := NewBounded(3)
	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = g.Execute(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	if g.Available() != 2 {
		t.Errorf("expected 2 available, got %d", g.Available())
	}
	if g.InUse() != 1 {
		t.Errorf("expected 1 in use, got %d", g.InUse())
	}

	close(release)
	deadline := time.Now().Add(time.Second)
	for g.InUse() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if g.Available() != 3 || g.InUse() != 0 {
		t.Errorf("expected all permits back, available %d in use %d", g.Available(), g.InUse())
	}
}

func TestBounded_WaiterBlocksUntilRelease(t *testing.T) {
	g := NewBounded(1)
	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = g.Execute(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	var ran atomic.Bool
	waiterDone := make(chan struct{})
	go func() {
		_ = g.Execute(context.Background(), func(ctx context.Context) error {
			ran.Store(true)
			return nil
		})
		close(waiterDone)
	}()

	time.Sleep(20 * time.Millisecond)
	if ran.Load() {
		t.Fatal("waiter ran while the only permit was held")
	}
	close(release)
	select {
	case <-waiterDone:
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken after release")
	}
}

func TestUnbounded_RunsEverythingAtOnce(t *testing.T) {
	g := NewUnbounded()
	const n = 20

	var arrived sync.WaitGroup
	arrived.Add(n)
	allIn := make(chan struct{})
	go func() { arrived.Wait(); close(allIn) }()

	tasks := make([]Task[int], n)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) (int, error) {
			arrived.Done()
			select {
			case <-allIn:
				return i, nil
			case <-time.After(2 * time.Second):
				return 0, errors.New("not all tasks were admitted together")
			}
		}
	}
	for i, r := range Run(context.Background(), g, tasks) {
		if r.Err != nil || r.Value != i {
			t.Errorf("result %d: got (%d, %v)", i, r.Value, r.Err)
		}
	}
	if g.Limit() != 0 {
		t.Errorf("expected limit 0, got %d", g.Limit())
	}
}

func TestRun_PreservesInputOrder(t *testing.T) {
	g := NewUnbounded()
	const n = 5

	// Later inputs finish first.
	tasks := make([]Task[int], n)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) (int, error) {
			time.Sleep(time.Duration(n-i) * 10 * time.Millisecond)
			return i * 10, nil
		}
	}
	results := Run(context.Background(), g, tasks)
	for i, r := range results {
		if r.Value != i*10 {
			t.Errorf("results[%d] = %d, want %d", i, r.Value, i*10)
		}
	}
}

func TestRun_Empty(t *testing.T) {
	if got := Run[int](context.Background(), NewBounded(1), nil); len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}

func TestRun_PassesContextValues(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "trace-1")

	results := Run(ctx, NewBounded(2), []Task[string]{
		func(ctx context.Context) (string, error) {
			v, _ := ctx.Value(key{}).(string)
			return v, nil
		},
	})
	if results[0].Value != "trace-1" {
		t.Errorf("expected context value to reach the task, got %q", results[0].Value)
	}
}

func TestRun_SizesAndCapacities(t *testing.T) {
	for _, capacity := range []int{1, 2, 3, 7} {
		for _, size := range []int{0, 1, 2, 3, 6, 7, 8, 15} {
			t.Run(fmt.Sprintf("cap=%d/size=%d", capacity, size), func(t *testing.T) {
				g := NewBounded(capacity)
				var tracker peakTracker

				tasks := make([]Task[int], size)
				for i := range tasks {
					tasks[i] = func(ctx context.Context) (int, error) {
						tracker.enter()
						defer tracker.leave()
						time.Sleep(time.Millisecond)
						if i%3 == 0 {
							return 0, fmt.Errorf("task %d", i)
						}
						return i, nil
					}
				}
				results := Run(context.Background(), g, tasks)

				if len(results) != size {
					t.Fatalf("expected %d results, got %d", size, len(results))
				}
				if got := int(tracker.peak.Load()); got > capacity {
					t.Errorf("peak %d exceeds capacity %d", got, capacity)
				}
				for i, r := range results {
					if i%3 == 0 {
						if r.Err == nil || r.Err.Error() != fmt.Sprintf("task %d", i) {
							t.Errorf("results[%d]: expected error, got %+v", i, r)
						}
					} else if r.Err != nil || r.Value != i {
						t.Errorf("results[%d]: expected %d, got %+v", i, i, r)
					}
				}
			})
		}
	}
}

func TestExecuteWithResult(t *testing.T) {
	r := ExecuteWithResult(context.Background(), NewBounded(1), func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if !r.OK() || r.Value != 42 {
		t.Errorf("expected 42, got %+v", r)
	}
}

// refusingGovernor never runs fn and reports nothing.
type refusingGovernor struct{ Unbounded }

func (refusingGovernor) Execute(context.Context, func(context.Context) error) error { return nil }

func TestExecuteWithResult_NotRun(t *testing.T) {
	r := ExecuteWithResult(context.Background(), &refusingGovernor{}, func(ctx context.Context) (int, error) {
		return 1, nil
	})
	if !r.Aborted || !apperrors.IsCode(r.Err, apperrors.ErrCodeTaskAborted) {
		t.Errorf("expected aborted result, got %+v", r)
	}
}

func TestHooks(t *testing.T) {
	var acquired, released atomic.Int32
	var names sync.Map
	g := NewBounded(2, WithName("brands"), WithLogger(nopLogger()), WithHooks(Hooks{
		OnAcquire: func(name string) { acquired.Add(1); names.Store(name, true) },
		OnRelease: func(name string) { released.Add(1) },
	}))

	tasks := []Task[int]{
		func(ctx context.Context) (int, error) { return 1, nil },
		func(ctx context.Context) (int, error) { return 0, errors.New("x") },
		func(ctx context.Context) (int, error) { panic("y") },
	}
	Run(context.Background(), g, tasks)

	if acquired.Load() != 3 || released.Load() != 3 {
		t.Errorf("expected 3 acquires and releases, got %d and %d", acquired.Load(), released.Load())
	}
	if _, ok := names.Load("brands"); !ok {
		t.Error("expected hooks to receive the governor name")
	}
	if g.Name() != "brands" {
		t.Errorf("expected name brands, got %q", g.Name())
	}
}

func TestPanickingAcquireHookAbortsOnlyItsTask(t *testing.T) {
	var calls atomic.Int32
	g := NewBounded(1, WithLogger(nopLogger()), WithHooks(Hooks{
		OnAcquire: func(string) {
			if calls.Add(1) == 2 {
				panic("hook")
			}
		},
	}))

	tasks := make([]Task[int], 3)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) (int, error) { return i, nil }
	}
	results := Run(context.Background(), g, tasks)

	aborted := 0
	for i, r := range results {
		if r.Aborted {
			aborted++
			if !apperrors.IsCode(r.Err, apperrors.ErrCodeTaskAborted) {
				t.Errorf("result %d: expected TASK_ABORTED, got %v", i, r.Err)
			}
			continue
		}
		if r.Err != nil || r.Value != i {
			t.Errorf("result %d: unexpected %+v", i, r)
		}
	}
	if aborted != 1 {
		t.Errorf("expected exactly one aborted task, got %d", aborted)
	}
	if g.InUse() != 0 || g.Available() != 1 {
		t.Errorf("expected permit returned, in use %d available %d", g.InUse(), g.Available())
	}
}

func TestPanickingAcquireHookSingleExecute(t *testing.T) {
	g := NewBounded(1, WithLogger(nopLogger()), WithHooks(Hooks{
		OnAcquire: func(string) { panic("hook") },
	}))

	res := ExecuteWithResult(context.Background(), g, func(ctx context.Context) (int, error) { return 1, nil })
	if !res.Aborted || res.OK() {
		t.Errorf("expected aborted result, got %+v", res)
	}
	if g.InUse() != 0 || g.Available() != 1 {
		t.Errorf("expected permit returned, in use %d available %d", g.InUse(), g.Available())
	}
}

func TestPanickingReleaseHookKeepsResult(t *testing.T) {
	g := NewBounded(1, WithLogger(nopLogger()), WithHooks(Hooks{
		OnRelease: func(string) { panic("hook") },
	}))

	res := ExecuteWithResult(context.Background(), g, func(ctx context.Context) (int, error) { return 7, nil })
	if !res.OK() || res.Value != 7 {
		t.Errorf("expected the task's own result, got %+v", res)
	}
	if g.InUse() != 0 || g.Available() != 1 {
		t.Errorf("expected permit returned, in use %d available %d", g.InUse(), g.Available())
	}
}
