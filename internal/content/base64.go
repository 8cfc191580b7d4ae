package content

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// ErrInvalidBase64 is returned when base64 input cannot be decoded.
	ErrInvalidBase64 = Error("invalid base64 input")
	// ErrInvalidHex is returned when hex input cannot be decoded.
	ErrInvalidHex = Error("invalid hex input")
)

// asciiWhitespace is stripped before base64 decoding, as browsers do.
const asciiWhitespace = " \t\n\f\r"

// Base64Encode encodes the UTF-8 bytes of the input with the standard,
// padded alphabet.
func Base64Encode() TransformerFunc {
	return Infallible(func(input string) string {
		return base64.StdEncoding.EncodeToString([]byte(input))
	})
}

// Base64Decode decodes standard-alphabet base64. Decoding is forgiving:
// ASCII whitespace is ignored and padding is optional, but a length that
// leaves a single trailing character or any byte outside the alphabet fails.
func Base64Decode() TransformerFunc {
	return func(input string) (string, error) {
		return decodeBase64(base64.RawStdEncoding, input)
	}
}

// Base64URLEncode encodes with the URL-safe alphabet and no padding.
func Base64URLEncode() TransformerFunc {
	return Infallible(func(input string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(input))
	})
}

// Base64URLDecode decodes URL-safe base64 with optional padding.
func Base64URLDecode() TransformerFunc {
	return func(input string) (string, error) {
		return decodeBase64(base64.RawURLEncoding, input)
	}
}

func decodeBase64(enc *base64.Encoding, input string) (string, error) {
	input = strings.Map(func(r rune) rune {
		if strings.ContainsRune(asciiWhitespace, r) {
			return -1
		}
		return r
	}, input)
	if len(input)%4 == 0 {
		input = strings.TrimSuffix(input, "=")
		input = strings.TrimSuffix(input, "=")
	}
	if len(input)%4 == 1 {
		return "", fmt.Errorf("%w: truncated quantum", ErrInvalidBase64)
	}
	out, err := enc.DecodeString(input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBase64, err)
	}
	return string(out), nil
}

// HexEncode encodes the input bytes as lowercase hexadecimal.
func HexEncode() TransformerFunc {
	return Infallible(func(input string) string {
		return hex.EncodeToString([]byte(input))
	})
}

// HexDecode decodes hexadecimal of either case, ignoring surrounding
// whitespace.
func HexDecode() TransformerFunc {
	return func(input string) (string, error) {
		out, err := hex.DecodeString(strings.TrimSpace(input))
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidHex, err)
		}
		return string(out), nil
	}
}
