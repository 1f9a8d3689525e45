package config

import (
	"github.com/kbukum/harvest/errors"
	"github.com/kbukum/harvest/validation"
)

var environments = []string{"development", "staging", "production"}

// BaseConfig identifies the run.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
}

// Validate validates base configuration.
func (c *BaseConfig) Validate() error {
	if c.Name == "" {
		return errors.MissingField("base.name")
	}
	v := validation.New().OneOf("base.environment", c.Environment, environments)
	if c.Environment == "" {
		v.AddError("base.environment", "is required")
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
