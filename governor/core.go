package governor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/kbukum/harvest/errors"
	"github.com/kbukum/harvest/logger"
	"github.com/kbukum/harvest/observability"
)

// core carries what every variant shares: identity, hooks, instruments and
// the in-use count. Variants decide when to call run.
type core struct {
	name    string
	hooks   Hooks
	metrics *observability.GovernorMetrics
	log     *logger.Logger
	inUse   atomic.Int64
}

func newCore(o *options) *core {
	return &core{
		name:    o.name,
		hooks:   o.hooks,
		metrics: o.metrics,
		log:     o.log,
	}
}

// run executes fn while the caller holds an admission. submitted is when the
// caller started waiting for it. The in-use count is restored and a panic in
// fn or OnAcquire is returned as TASK_ABORTED on every path.
func (c *core) run(ctx context.Context, submitted time.Time, fn func(context.Context) error) (err error) {
	c.inUse.Add(1)
	started := time.Now()
	status := observability.StatusOK
	defer func() {
		if r := recover(); r != nil {
			err = errors.TaskAborted(r)
			status = observability.StatusAborted
			c.log.Warn("task aborted", logger.Fields(
				logger.FieldGovernor, c.name,
				logger.FieldError, fmt.Sprint(r),
			))
		}
		c.inUse.Add(-1)
		c.callRelease()
		if c.metrics != nil {
			c.metrics.RecordRelease(ctx, c.name, status, time.Since(started))
		}
	}()

	if c.metrics != nil {
		c.metrics.RecordAcquire(ctx, c.name, started.Sub(submitted))
	}
	if c.hooks.OnAcquire != nil {
		c.hooks.OnAcquire(c.name)
	}

	if err = fn(ctx); err != nil {
		status = observability.StatusError
	}
	return err
}

// callRelease runs OnRelease. The task has already finished, so a panic here
// is logged and does not change its result.
func (c *core) callRelease() {
	if c.hooks.OnRelease == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("release hook panicked", logger.Fields(
				logger.FieldGovernor, c.name,
				logger.FieldError, fmt.Sprint(r),
			))
		}
	}()
	c.hooks.OnRelease(c.name)
}

func (c *core) current() int { return int(c.inUse.Load()) }
