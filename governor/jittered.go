package governor

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/kbukum/harvest/logger"
)

// Jitter bounds applied when a jittered governor is configured without delays.
const (
	DefaultMinDelay = 100 * time.Millisecond
	DefaultMaxDelay = 5 * time.Second
)

// Jittered holds each admitted unit for a random delay in [min, max] before
// running it. The delay counts against the permit, so at most Limit units are
// sleeping or working at once.
type Jittered struct {
	inner    Governor
	minDelay time.Duration
	maxDelay time.Duration
	randInt  func(int64) int64
	sleep    func(time.Duration)
	log      *logger.Logger
}

// NewJittered creates a jittered governor. maxConcurrent of 0 leaves admission
// unbounded and a negative value falls back to DefaultMaxConcurrent. Negative
// or inverted delays fall back to DefaultMinDelay and DefaultMaxDelay. Zero
// delays are kept, unlike a jittered Config, whose zero delays are defaulted.
func NewJittered(maxConcurrent int, minDelay, maxDelay time.Duration, opts ...Option) *Jittered {
	if maxConcurrent < 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if minDelay < 0 || maxDelay < 0 || minDelay > maxDelay {
		minDelay, maxDelay = DefaultMinDelay, DefaultMaxDelay
	}
	return newJittered(maxConcurrent, minDelay, maxDelay, newOptions(string(StrategyJittered), opts))
}

func newJittered(maxConcurrent int, minDelay, maxDelay time.Duration, o *options) *Jittered {
	return &Jittered{
		inner:    innerFor(maxConcurrent, o),
		minDelay: minDelay,
		maxDelay: maxDelay,
		randInt:  o.randInt,
		sleep:    o.sleep,
		log:      o.log,
	}
}

// innerFor builds the admission layer a delaying governor wraps.
func innerFor(maxConcurrent int, o *options) Governor {
	if maxConcurrent == 0 {
		return &Unbounded{core: newCore(o)}
	}
	return newBounded(maxConcurrent, o)
}

// Execute waits for admission, sleeps for a sampled delay, then runs fn.
func (j *Jittered) Execute(ctx context.Context, fn func(context.Context) error) error {
	return j.inner.Execute(ctx, func(ctx context.Context) error {
		d := j.delay()
		if j.log.Enabled(zerolog.DebugLevel) {
			j.log.Debug("jitter delay", logger.Fields(
				logger.FieldGovernor, j.inner.Name(),
				logger.FieldDelay, d.Milliseconds(),
			))
		}
		if d > 0 {
			j.sleep(d)
		}
		return fn(ctx)
	})
}

// delay samples uniformly from [minDelay, maxDelay], both ends included.
func (j *Jittered) delay() time.Duration {
	span := int64(j.maxDelay - j.minDelay)
	if span <= 0 {
		return j.minDelay
	}
	if span < math.MaxInt64 {
		span++
	}
	return j.minDelay + time.Duration(j.randInt(span))
}

// Delays returns the configured delay bounds.
func (j *Jittered) Delays() (minDelay, maxDelay time.Duration) {
	return j.minDelay, j.maxDelay
}

// Limit returns the wrapped capacity, 0 when unbounded.
func (j *Jittered) Limit() int { return j.inner.Limit() }

// InUse counts units that are sleeping or running.
func (j *Jittered) InUse() int { return j.inner.InUse() }

// Name returns the governor name.
func (j *Jittered) Name() string { return j.inner.Name() }
