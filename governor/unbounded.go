package governor

import (
	"context"
	"time"
)

// Unbounded admits every unit immediately.
type Unbounded struct {
	*core
}

// NewUnbounded creates a governor that never throttles. It still tracks how
// many units are running.
func NewUnbounded(opts ...Option) *Unbounded {
	return &Unbounded{core: newCore(newOptions(string(StrategyUnbounded), opts))}
}

// Execute runs fn right away.
func (u *Unbounded) Execute(ctx context.Context, fn func(context.Context) error) error {
	return u.run(ctx, time.Now(), fn)
}

// Limit returns 0.
func (u *Unbounded) Limit() int { return 0 }

// InUse returns the number of units currently running.
func (u *Unbounded) InUse() int { return u.current() }

// Name returns the governor name.
func (u *Unbounded) Name() string { return u.name }
