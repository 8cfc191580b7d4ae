package content

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// BOM is the byte order mark some editors prepend to UTF-8 text.
const BOM = "\uFEFF"

// minChardetConfidence is the minimum confidence level required to trust
// chardet's detection over the default Windows-1252 fallback.
const minChardetConfidence = 50

// StripBOM removes a single leading byte order mark.
func StripBOM(input string) string { return strings.TrimPrefix(input, BOM) }

// NormalizeUTF8 converts input of unknown charset to UTF-8, strips a leading
// BOM, and normalizes CRLF and CR line endings to LF.
//
// Detection strategy:
//  1. Valid UTF-8 input is left as-is
//  2. charset.DetermineEncoding checks for a BOM or meta tags
//  3. If that is uncertain, chardet's statistical detection is used when
//     confident enough, falling back to Windows-1252
//  4. Input detected as UTF-8 that is not valid UTF-8 has each invalid
//     byte sequence replaced with U+FFFD
func NormalizeUTF8() TransformerFunc {
	return func(input string) (string, error) {
		raw := []byte(input)
		if !utf8.Valid(raw) {
			decoded, err := toUTF8(raw)
			if err != nil {
				return "", err
			}
			raw = decoded
		}
		raw = bytes.TrimPrefix(raw, []byte(BOM))
		raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
		raw = bytes.ReplaceAll(raw, []byte("\r"), []byte("\n"))
		return string(raw), nil
	}
}

func toUTF8(raw []byte) ([]byte, error) {
	enc, name, certain := charset.DetermineEncoding(raw, "text/plain")
	if !certain {
		if detected, detectedName := detectWithChardet(raw); detected != nil {
			enc, name = detected, detectedName
		}
	}
	slog.Debug("converting input to UTF-8",
		slog.String("encoding", name),
		slog.Bool("certain", certain))

	if enc == encoding.Nop || enc == unicode.UTF8 {
		// input already failed validation: keep the valid sequences
		return bytes.ToValidUTF8(raw, []byte(string(utf8.RuneError))), nil
	}
	out, err := io.ReadAll(enc.NewDecoder().Reader(bytes.NewReader(raw)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s to UTF-8: %w", name, err)
	}
	return out, nil
}

// detectWithChardet uses ICU-based statistical detection. Returns nil if
// detection fails, confidence is too low, or the charset is not in the HTML
// encoding index.
func detectWithChardet(raw []byte) (encoding.Encoding, string) {
	result, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil || result.Confidence < minChardetConfidence {
		return nil, ""
	}
	enc, err := htmlindex.Get(result.Charset)
	if err != nil {
		return nil, ""
	}
	return enc, result.Charset
}
