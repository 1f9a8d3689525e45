package config

import (
	"fmt"
	"sort"

	"github.com/kbukum/harvest/governor"
	"github.com/kbukum/harvest/logger"
)

// EngineConfig is the top-level configuration of a harvesting run.
//
//	base:
//	  name: harvest
//	logging:
//	  level: debug
//	governors:
//	  brands:
//	    max_concurrent: 10
//	  products:
//	    max_concurrent: 5
//	    min_delay: 100ms
//	    max_delay: 5s
type EngineConfig struct {
	Base      BaseConfig                 `yaml:"base" mapstructure:"base"`
	Logging   logger.Config              `yaml:"logging" mapstructure:"logging"`
	Governors map[string]governor.Config `yaml:"governors" mapstructure:"governors"`
}

// ApplyDefaults fills defaults for every section.
func (c *EngineConfig) ApplyDefaults() {
	c.Base.ApplyDefaults()
	c.Logging.ApplyDefaults()
	for name, g := range c.Governors {
		g.ApplyDefaults()
		c.Governors[name] = g
	}
}

// Validate validates every section. Governors are checked in name order so
// the first error reported is stable.
func (c *EngineConfig) Validate() error {
	if err := c.Base.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	for _, name := range c.GovernorNames() {
		g := c.Governors[name]
		if err := g.Validate(); err != nil {
			return fmt.Errorf("config.governors.%s: %w", name, err)
		}
	}
	return nil
}

// GovernorNames returns the configured governor names in sorted order.
func (c *EngineConfig) GovernorNames() []string {
	names := make([]string, 0, len(c.Governors))
	for name := range c.Governors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildGovernors creates one shared governor per configured entry.
func (c *EngineConfig) BuildGovernors(opts ...governor.Option) (*governor.Registry, error) {
	return governor.NewRegistry(c.Governors, opts...)
}

// Load reads, defaults and validates an EngineConfig.
func Load(serviceName string, opts ...LoaderOption) (*EngineConfig, error) {
	var cfg EngineConfig
	if err := LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if cfg.Base.Name == "" {
		cfg.Base.Name = serviceName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
