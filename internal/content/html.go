package content

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// EscapeHTML escapes the characters <, >, &, ' and " as HTML entities.
func EscapeHTML() TransformerFunc {
	return Infallible(html.EscapeString)
}

// UnescapeHTML decodes named and numeric HTML entities. Unknown entities are
// left as-is.
func UnescapeHTML() TransformerFunc {
	return Infallible(html.UnescapeString)
}

// ExtractHTMLBody extracts just the body content from a full HTML document.
// If no body tag exists, returns the input unchanged.
func ExtractHTMLBody() TransformerFunc {
	return func(input string) (string, error) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
		if err != nil {
			return "", fmt.Errorf("failed to parse HTML document: %w", err)
		}
		body := doc.Find("body")
		if body.Length() == 0 {
			return input, nil
		}
		innerHTML, err := body.Html()
		if err != nil {
			return "", fmt.Errorf("failed to extract HTML body: %w", err)
		}
		return innerHTML, nil
	}
}

// HTMLText returns the text content of the document body, with script and
// style elements removed and surrounding whitespace trimmed.
func HTMLText() TransformerFunc {
	return func(input string) (string, error) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
		if err != nil {
			return "", fmt.Errorf("failed to parse HTML document: %w", err)
		}
		doc.Find("script, style, template").Remove()
		sel := doc.Find("body")
		if sel.Length() == 0 {
			sel = doc.Selection
		}
		return strings.TrimSpace(sel.Text()), nil
	}
}

// nbspPattern matches both the HTML entity &nbsp; (case insensitive) and
// the actual unicode non-breaking space character (U+00A0).
var nbspPattern = regexp.MustCompile("(?i)&nbsp;|\xc2\xa0")

// NormalizeNBSP replaces non-breaking space entities and characters with
// regular spaces. Operates on raw input before HTML parsing.
func NormalizeNBSP() TransformerFunc {
	return Infallible(func(input string) string {
		return nbspPattern.ReplaceAllLiteralString(input, " ")
	})
}

// SanitizeHTML strips unsupported tags and attributes from HTML input.
func SanitizeHTML() TransformerFunc {
	policy := sanitizer()
	return Infallible(policy.Sanitize)
}

// sanitizer is a narrowed [bluemonday.UGCPolicy]: links get noreferrer and
// target=_blank, and no embedded media (img, figure, map) is allowed.
func sanitizer() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()

	policy.AllowStandardAttributes()
	policy.AllowStandardURLs()
	policy.RequireNoReferrerOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	policy.AllowElements(
		"abbr", "article", "aside", "b", "bdi", "bdo", "br", "cite", "code",
		"dfn", "div", "em", "h1", "h2", "h3", "h4", "h5", "h6", "hgroup", "hr",
		"i", "mark", "p", "pre", "s", "samp", "section", "small", "strike",
		"strong", "sub", "summary", "sup", "u", "var", "wbr",
	)
	policy.AllowAttrs("open").
		Matching(regexp.MustCompile(`(?i)^(|open)$`)).
		OnElements("details")
	policy.AllowAttrs("cite").OnElements("blockquote", "q")
	policy.AllowAttrs("href").OnElements("a")
	policy.AllowAttrs("datetime").
		Matching(bluemonday.ISO8601).
		OnElements("del", "ins", "time")
	// goldmark marks fenced code blocks with a language class
	policy.AllowAttrs("class").
		Matching(regexp.MustCompile(`^language-[\w+-]+$`)).
		OnElements("code")

	policy.AllowLists()
	policy.AllowTables()

	return policy
}
