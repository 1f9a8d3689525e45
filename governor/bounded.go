package governor

import (
	"context"
	"time"
)

// DefaultMaxConcurrent is used when a direct constructor gets an invalid capacity.
const DefaultMaxConcurrent = 10

// Bounded admits at most a fixed number of units at once. Waiting units block
// their own goroutine only, and each release wakes exactly one waiter.
type Bounded struct {
	*core
	sem chan struct{}
}

// NewBounded creates a governor with maxConcurrent permits. A non-positive
// value falls back to DefaultMaxConcurrent.
func NewBounded(maxConcurrent int, opts ...Option) *Bounded {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return newBounded(maxConcurrent, newOptions(string(StrategyBounded), opts))
}

func newBounded(maxConcurrent int, o *options) *Bounded {
	return &Bounded{
		core: newCore(o),
		sem:  make(chan struct{}, maxConcurrent),
	}
}

// Execute waits for a permit, runs fn and returns the permit.
func (b *Bounded) Execute(ctx context.Context, fn func(context.Context) error) error {
	submitted := time.Now()
	b.acquire()
	defer b.release()
	return b.run(ctx, submitted, fn)
}

// acquire blocks until a permit is free.
func (b *Bounded) acquire() {
	b.sem <- struct{}{}
}

// release returns a permit. Releasing more permits than were acquired is a
// governor fault and panics.
func (b *Bounded) release() {
	select {
	case <-b.sem:
	default:
		panic("governor: permit released without a matching acquire")
	}
}

// Available returns the number of free permits.
func (b *Bounded) Available() int {
	return cap(b.sem) - len(b.sem)
}

// InUse returns the number of units currently running.
func (b *Bounded) InUse() int { return b.current() }

// Limit returns the permit count.
func (b *Bounded) Limit() int { return cap(b.sem) }

// Name returns the governor name.
func (b *Bounded) Name() string { return b.name }
