package content

// Transformer modifies text, returning the modified text or an error.
type Transformer interface {
	// Transform modifies input, returning modified text or an error when the
	// input is not valid for the transform.
	Transform(input string) (string, error)
}

// TransformerFunc is a [Transformer] that can be represented just by the
// [Transform] method.
type TransformerFunc func(input string) (string, error)

// Transform satisfies [Transformer].
func (fn TransformerFunc) Transform(input string) (string, error) { return fn(input) }

// Infallible adapts a transform that cannot fail into a [TransformerFunc].
func Infallible(fn func(string) string) TransformerFunc {
	return func(input string) (string, error) { return fn(input), nil }
}
