// Package validation checks engine configuration before anything is built
// from it.
//
// Struct tag validation uses the validator library. Field names in messages
// come from mapstructure tags so they match the keys a user wrote in YAML or
// the environment.
//
//	type Config struct {
//	    MaxConcurrent int `mapstructure:"max_concurrent" validate:"gte=0"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
// Cross-field rules that tags cannot express go through the fluent Validator:
//
//	v := validation.New()
//	v.Min("max_concurrent", n, 0).DurationOrder("min_delay", lo, "max_delay", hi)
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
