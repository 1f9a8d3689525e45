package governor

import (
	"time"

	"github.com/kbukum/harvest/errors"
	"github.com/kbukum/harvest/logger"
	"github.com/kbukum/harvest/validation"
)

// Strategy names an admission policy.
type Strategy string

const (
	StrategyUnbounded Strategy = "unbounded"
	StrategyBounded   Strategy = "bounded"
	StrategyJittered  Strategy = "jittered"
	StrategyPaced     Strategy = "paced"
)

var strategies = []string{
	string(StrategyUnbounded),
	string(StrategyBounded),
	string(StrategyJittered),
	string(StrategyPaced),
}

// Config describes one governor. Durations decode from strings such as
// "250ms" or "5s".
type Config struct {
	// Strategy selects the policy. Empty infers it from the other fields.
	Strategy Strategy `yaml:"strategy" mapstructure:"strategy" validate:"omitempty,oneof=unbounded bounded jittered paced"`
	// MaxConcurrent is the permit count. 0 means unbounded.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent" validate:"gte=0"`
	// MinDelay and MaxDelay bound the jitter slept before each unit. For the
	// jittered strategy, leaving both at 0 selects DefaultMinDelay and
	// DefaultMaxDelay; use the bounded strategy for no delay at all.
	MinDelay time.Duration `yaml:"min_delay" mapstructure:"min_delay" validate:"gte=0"`
	MaxDelay time.Duration `yaml:"max_delay" mapstructure:"max_delay" validate:"gte=0"`
	// Rate is the number of starts per second for the paced strategy.
	Rate float64 `yaml:"rate" mapstructure:"rate" validate:"gte=0"`
	// Burst is the token bucket size for the paced strategy.
	Burst int `yaml:"burst" mapstructure:"burst" validate:"gte=0"`
}

// ApplyDefaults infers a missing strategy and fills delay and burst defaults.
// A jittered config with both delays at 0 gets the default 100ms..5s range;
// NewJittered keeps explicit zero delays.
func (c *Config) ApplyDefaults() {
	if c.Strategy == "" {
		c.Strategy = c.inferStrategy()
	}
	switch c.Strategy {
	case StrategyJittered:
		if c.MinDelay == 0 && c.MaxDelay == 0 {
			c.MinDelay, c.MaxDelay = DefaultMinDelay, DefaultMaxDelay
		}
	case StrategyPaced:
		if c.Burst == 0 {
			c.Burst = DefaultBurst
		}
	}
}

func (c *Config) inferStrategy() Strategy {
	switch {
	case c.Rate > 0:
		return StrategyPaced
	case c.MinDelay > 0 || c.MaxDelay > 0:
		return StrategyJittered
	case c.MaxConcurrent > 0:
		return StrategyBounded
	default:
		return StrategyUnbounded
	}
}

// Validate checks field ranges and cross-field rules.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}

	v := validation.New()
	v.OneOf("strategy", string(c.Strategy), strategies)
	v.DurationOrder("min_delay", c.MinDelay, "max_delay", c.MaxDelay)
	switch c.Strategy {
	case StrategyBounded:
		v.Custom(c.MaxConcurrent > 0, "max_concurrent", "must be greater than 0 for the bounded strategy")
	case StrategyUnbounded:
		v.Custom(c.MaxConcurrent == 0, "max_concurrent", "must be 0 for the unbounded strategy")
	case StrategyPaced:
		v.Positive("rate", c.Rate)
		v.Min("burst", c.Burst, 1)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// New validates cfg and builds the governor it describes. Invalid settings
// return an INVALID_CONFIG error instead of falling back to defaults.
func New(cfg Config, opts ...Option) (Governor, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := newOptions(string(cfg.Strategy), opts)
	var g Governor
	switch cfg.Strategy {
	case StrategyUnbounded:
		g = &Unbounded{core: newCore(o)}
	case StrategyBounded:
		g = newBounded(cfg.MaxConcurrent, o)
	case StrategyJittered:
		g = newJittered(cfg.MaxConcurrent, cfg.MinDelay, cfg.MaxDelay, o)
	case StrategyPaced:
		g = newPaced(cfg.MaxConcurrent, cfg.Rate, cfg.Burst, o)
	default:
		return nil, errors.InvalidConfig("strategy", "unknown strategy "+string(cfg.Strategy))
	}

	o.log.Debug("governor created", logger.Fields(
		logger.FieldGovernor, g.Name(),
		logger.FieldStrategy, string(cfg.Strategy),
		logger.FieldLimit, g.Limit(),
	))
	return g, nil
}
