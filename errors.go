package engine

import "errors"

// epsilon guards every near-zero division in the package. Individual call
// sites must not introduce their own tolerances.
const epsilon = 1e-9

var (
	// ErrNoWearableDefense is returned by calibration when no defense type
	// has wear enabled with a positive decrement. Strikes stay dispatchable
	// but destroy nothing until definitions change.
	ErrNoWearableDefense = errors.New("engine: no wear-enabled defense type with positive decrement")

	// ErrDispatchRejected is returned when strike construction validation
	// fails. No state is mutated and the strike never enters flight.
	ErrDispatchRejected = errors.New("engine: strike dispatch rejected")

	// ErrPayloadNotReady is returned when a strike is requested before the
	// payload bundle has been assembled.
	ErrPayloadNotReady = errors.New("engine: strike payload not assembled")

	// ErrDataUnavailable marks a collaborator that has not produced data
	// yet. Callers treat it as a zero contribution, never as a crash.
	ErrDataUnavailable = errors.New("engine: collaborator data unavailable")
)

// ConfigError reports a missing or invalid configuration field. It is the
// only failure surfaced to the owning game as a hard initialization error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "engine: invalid configuration"
	}
	return "engine: invalid configuration field " + e.Field + ": " + e.Reason
}
