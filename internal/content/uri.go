package content

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	// ErrInvalidURI is returned when percent-encoded input is malformed or
	// does not decode to valid UTF-8.
	ErrInvalidURI = Error("invalid URI component")
	// ErrInvalidUTF8 is returned when a transformer requires UTF-8 input.
	ErrInvalidUTF8 = Error("invalid UTF-8 input")
)

const upperHex = "0123456789ABCDEF"

// URIEncode percent-encodes every byte of the input except the URI
// component unreserved set: ASCII letters, digits, and "-_.!~*'()".
// Spaces become %20, never "+".
func URIEncode() TransformerFunc {
	return func(input string) (string, error) {
		if !utf8.ValidString(input) {
			return "", ErrInvalidUTF8
		}
		var out strings.Builder
		out.Grow(len(input))
		for i := range len(input) {
			b := input[i]
			if isUnreservedURIByte(b) {
				out.WriteByte(b)
				continue
			}
			out.WriteByte('%')
			out.WriteByte(upperHex[b>>4])
			out.WriteByte(upperHex[b&0x0f])
		}
		return out.String(), nil
	}
}

// URIDecode reverses URIEncode. Every %XX sequence is decoded, "+" is left
// as-is, and the result must be valid UTF-8.
func URIDecode() TransformerFunc {
	return func(input string) (string, error) {
		out, err := url.PathUnescape(input)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidURI, err)
		}
		if !utf8.ValidString(out) {
			return "", fmt.Errorf("%w: %w", ErrInvalidURI, ErrInvalidUTF8)
		}
		return out, nil
	}
}

func isUnreservedURIByte(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", b) >= 0
}
