// Package pagination provides utilities around page tokens.
package pagination

import (
	"encoding/base64"
	"errors"

	"github.com/vmihailenco/msgpack/v5"
)

// Page size bounds applied by [PageSize].
const (
	DefaultPageSize = 50
	MaxPageSize     = 1000
)

var tokenEncoding = base64.RawURLEncoding

// Cursor is the state carried in a page token.
type Cursor interface {
	// Validate reports whether the cursor is usable.
	Validate() error
}

// FlowsCursor resumes a flow listing after the named flow.
type FlowsCursor struct {
	AfterName string `msgpack:"after_name"`
}

// Validate satisfies [Cursor].
func (c *FlowsCursor) Validate() error {
	if c.AfterName == "" {
		return errors.New("after_name is required")
	}
	return nil
}

// TokenError is an opaque error related to pagination tokens. The error message
// does not reveal internal details; use [errors.Unwrap] to access the cause.
type TokenError struct {
	cause error
}

// Error satisfies [error].
func (terr TokenError) Error() string {
	return "invalid pagination token"
}

// Unwrap returns the underlying cause of the token error.
func (terr TokenError) Unwrap() error {
	return terr.cause
}

// FromToken decodes an opaque pagination token into the provided cursor.
// Returns a [TokenError] if decoding or validation fails.
func FromToken(tkn string, cursor Cursor) error {
	data, err := tokenEncoding.DecodeString(tkn)
	if err != nil {
		return TokenError{cause: err}
	}
	if err = msgpack.Unmarshal(data, cursor); err != nil {
		return TokenError{cause: err}
	}
	if err = cursor.Validate(); err != nil {
		return TokenError{cause: err}
	}
	return nil
}

// ToToken encodes a cursor into an opaque pagination token. Returns a
// [TokenError] if validation or encoding fails.
func ToToken(cursor Cursor) (string, error) {
	if err := cursor.Validate(); err != nil {
		return "", TokenError{cause: err}
	}
	data, err := msgpack.Marshal(cursor)
	if err != nil {
		return "", TokenError{cause: err}
	}
	return tokenEncoding.EncodeToString(data), nil
}

// PageSize clamps a requested page size, substituting [DefaultPageSize] for
// non-positive values.
func PageSize(requested int) int {
	switch {
	case requested <= 0:
		return DefaultPageSize
	case requested > MaxPageSize:
		return MaxPageSize
	default:
		return requested
	}
}
