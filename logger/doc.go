// Package logger provides structured logging for harvest using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers with structured fields. The engine packages log
// through named component loggers ("governor", "outcome"), so a collaborator
// can replace them with Register before a run starts.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("governor")
//	log.Debug("permit acquired", logger.Fields(logger.FieldInUse, 3))
package logger
