package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldStage     = "stage"
	FieldGovernor  = "governor"
	FieldStrategy  = "strategy"
	FieldInUse     = "in_use"
	FieldLimit     = "limit"
	FieldInputs    = "inputs"
	FieldSuccesses = "successes"
	FieldFailures  = "failures"
	FieldSource    = "source"
	FieldDelay     = "delay_ms"
	FieldDuration  = "duration_ms"
	FieldOperation = "operation"
	FieldError     = "error"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("stage done", logger.Fields(logger.FieldStage, "brands", logger.FieldFailures, 2))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// CountFields creates the success/failure tally fields logged after a stage.
func CountFields(stage string, inputs, successes, failures int) map[string]interface{} {
	return map[string]interface{}{
		FieldStage:     stage,
		FieldInputs:    inputs,
		FieldSuccesses: successes,
		FieldFailures:  failures,
	}
}

// MergeWithDuration adds a duration field to an existing map.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
