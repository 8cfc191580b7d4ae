package content

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ErrInvalidJSON is returned when input is not a single well-formed JSON
// value.
const ErrInvalidJSON = Error("invalid JSON input")

// JSONStringify renders the input as a JSON string literal. HTML-sensitive
// characters are left unescaped.
func JSONStringify() TransformerFunc {
	return func(input string) (string, error) {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(input); err != nil {
			return "", fmt.Errorf("failed to encode JSON string: %w", err)
		}
		return string(bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})), nil
	}
}

// JSONParse parses a JSON document. A string literal yields its contents,
// so JSONParse reverses JSONStringify; any other value yields its compact
// JSON text, keeping the pipeline text-to-text.
func JSONParse() TransformerFunc {
	return func(input string) (string, error) {
		data := bytes.TrimSpace([]byte(input))
		if !json.Valid(data) {
			return "", ErrInvalidJSON
		}
		if data[0] == '"' {
			var str string
			if err := json.Unmarshal(data, &str); err != nil {
				return "", fmt.Errorf("%w: %w", ErrInvalidJSON, err)
			}
			return str, nil
		}
		var out bytes.Buffer
		if err := json.Compact(&out, data); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidJSON, err)
		}
		return out.String(), nil
	}
}
