package content

// Error is an error type returned when input is not valid for a transformer.
// Transformers wrap it with the underlying cause.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }
