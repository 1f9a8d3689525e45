package governor

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacing defaults used when a direct constructor gets invalid values.
const (
	DefaultRate  = 10.0
	DefaultBurst = 1
)

// Paced bounds concurrency and also spaces out starts with a token bucket:
// at most Rate units start per second, with bursts up to Burst.
type Paced struct {
	inner   Governor
	limiter *rate.Limiter
	sleep   func(time.Duration)
}

// NewPaced creates a paced governor. maxConcurrent of 0 leaves admission
// unbounded and a negative value falls back to DefaultMaxConcurrent. A
// non-positive rate or burst falls back to DefaultRate or DefaultBurst.
func NewPaced(maxConcurrent int, perSecond float64, burst int, opts ...Option) *Paced {
	if maxConcurrent < 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if perSecond <= 0 {
		perSecond = DefaultRate
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return newPaced(maxConcurrent, perSecond, burst, newOptions(string(StrategyPaced), opts))
}

func newPaced(maxConcurrent int, perSecond float64, burst int, o *options) *Paced {
	return &Paced{
		inner:   innerFor(maxConcurrent, o),
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		sleep:   o.sleep,
	}
}

// Execute waits for admission, then for a token, then runs fn.
func (p *Paced) Execute(ctx context.Context, fn func(context.Context) error) error {
	return p.inner.Execute(ctx, func(ctx context.Context) error {
		// Reserve rather than Wait: waiting must not depend on ctx.
		if d := p.limiter.Reserve().Delay(); d > 0 {
			p.sleep(d)
		}
		return fn(ctx)
	})
}

// Rate returns the configured starts per second and burst.
func (p *Paced) Rate() (perSecond float64, burst int) {
	return float64(p.limiter.Limit()), p.limiter.Burst()
}

// Limit returns the wrapped capacity, 0 when unbounded.
func (p *Paced) Limit() int { return p.inner.Limit() }

// InUse counts units that are waiting for a token or running.
func (p *Paced) InUse() int { return p.inner.InUse() }

// Name returns the governor name.
func (p *Paced) Name() string { return p.inner.Name() }
