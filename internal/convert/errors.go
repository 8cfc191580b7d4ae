package convert

import "fmt"

const (
	// ErrNotFound is returned when a converter reference does not resolve.
	ErrNotFound Error = "converter not found"
	// ErrUnknownGroup is returned for group names other than encode/decode.
	ErrUnknownGroup Error = "unknown converter group"
	// ErrIndexOutOfRange is returned when removing a step that does not exist.
	ErrIndexOutOfRange Error = "flow index out of range"
	// ErrNoTransform is the cause reported for a converter built without a
	// transformer.
	ErrNoTransform Error = "converter has no transform"
	// ErrInvalidConversion is the cause of every [ConversionError].
	ErrInvalidConversion Error = "invalid conversion"
)

// Sentinel is the output reported in place of a result when a flow fails.
const Sentinel = "Error: Invalid conversion"

// Error is an error type returned by the convert package.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// ConversionError reports the step of a flow that rejected its input. It
// matches [ErrInvalidConversion] with errors.Is, and unwraps to the cause
// reported by the converter as well.
type ConversionError struct {
	Step      int    // zero-based index of the failed step
	Converter string // reference of the failed converter
	Cause     error
}

// Error satisfies [error].
func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s at step %d (%s): %v", ErrInvalidConversion, e.Step+1, e.Converter, e.Cause)
}

// Unwrap exposes both the sentinel and the converter's error.
func (e *ConversionError) Unwrap() []error {
	return []error{ErrInvalidConversion, e.Cause}
}
