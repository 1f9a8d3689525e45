package governor

import (
	"math/rand/v2"
	"time"

	"github.com/kbukum/harvest/logger"
	"github.com/kbukum/harvest/observability"
)

// Hooks are called around every admitted unit of work.
type Hooks struct {
	// OnAcquire is called once a unit is admitted, before it runs. A panic
	// aborts that unit only.
	OnAcquire func(name string)
	// OnRelease is called after a unit finishes, panics included. A panic is
	// logged and ignored.
	OnRelease func(name string)
}

// Option configures a governor.
type Option func(*options)

type options struct {
	name    string
	hooks   Hooks
	metrics *observability.GovernorMetrics
	log     *logger.Logger
	randInt func(n int64) int64
	sleep   func(time.Duration)
}

func newOptions(defaultName string, opts []Option) *options {
	o := &options{
		name:    defaultName,
		randInt: rand.Int64N,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get("governor")
	}
	return o
}

// WithName names the governor in logs, hooks and metrics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithHooks installs acquire/release callbacks.
func WithHooks(h Hooks) Option {
	return func(o *options) { o.hooks = h }
}

// WithMetrics records admissions on m.
func WithMetrics(m *observability.GovernorMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger replaces the component logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithRand replaces the source used to sample jitter delays. fn must return a
// value in [0, n).
func WithRand(fn func(n int64) int64) Option {
	return func(o *options) {
		if fn != nil {
			o.randInt = fn
		}
	}
}

// WithSleep replaces time.Sleep for jitter and pacing delays.
func WithSleep(fn func(time.Duration)) Option {
	return func(o *options) {
		if fn != nil {
			o.sleep = fn
		}
	}
}
