// Package detect guesses the format of a piece of text with an ordered list
// of heuristic rules.
//
// Rules are not mutually exclusive, so their order defines precedence: the
// first rule that matches wins, and no two rules combine evidence. Most
// rules look at the start of the trimmed content, but the language keyword
// rules (JavaScript, TypeScript, Python, Java, YAML) match at the start of
// any line.
package detect

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/stolasapp/ende/internal/content"
)

// Label names a detected format.
type Label string

// Detection labels.
const (
	Empty      Label = "Empty"
	JSON       Label = "JSON"
	HTML       Label = "HTML"
	XML        Label = "XML"
	CSS        Label = "CSS"
	JavaScript Label = "JavaScript"
	TypeScript Label = "TypeScript"
	Python     Label = "Python"
	Java       Label = "Java"
	YAML       Label = "YAML"
	Markdown   Label = "Markdown"
	Base64     Label = "Base64"
	URLEncoded Label = "URL-encoded"
	CSV        Label = "CSV"
	PlainText  Label = "Plain text"
)

// ws is the whitespace class of the line rules. Unlike \s it also covers the
// vertical tab, Unicode space separators, the BOM and the line and paragraph
// separators.
const ws = `[\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]`

type rule struct {
	label Label
	match func(content string) bool
}

var (
	jsonOpen  = regexp.MustCompile(`^\s*[{\[]`)
	jsonClose = regexp.MustCompile(`[}\]]\s*$`)

	// A tag-like opener anywhere followed by a closing bracket somewhere.
	markup = regexp.MustCompile(`(?s)^\s*<.*>`)
	// Any of these tags (anywhere) marks the markup as an HTML document.
	htmlTags = regexp.MustCompile(`(?i)<(!DOCTYPE|html|head|body)`)

	// A selector and declaration block, or an at-rule, at the very start.
	cssRule = regexp.MustCompile(`(?i)^\s*(\S+\s*\{[^}]*\}|@\w+|@import\s+)`)

	javaScriptLine = regexp.MustCompile(
		`(?m)^` + ws + `*(?:(?:var|let|const|function|class|import|export|async|await)\b|=>` + ws + `*\{)`)
	typeScriptLine = regexp.MustCompile(
		`(?m)^` + ws + `*(?:interface|type|namespace|enum|declare|abstract` + ws + `+class)\b`)
	pythonLine = regexp.MustCompile(
		`(?m)^` + ws + `*(?:(?:def|class|import|from)\b|if` + ws + `+__name__` + ws + `*==` + ws +
			`*['"]__main__['"]` + ws + `*:)`)
	javaLine = regexp.MustCompile(
		`(?m)^` + ws + `*(?:(?:public|private|protected|class|interface|enum|package)\b|import` + ws + `+java\b)`)
	yamlLine = regexp.MustCompile(`(?m)^` + ws + `*(?:\w+:|---)`)

	// An ATX heading at the start or on any later line, or a bullet or
	// numbered list item at the start of any line.
	markdown = regexp.MustCompile(`^#\s|\n#{1,6}\s|(?:^|\n)(?:[-*+]|\d+\.)\s`)

	base64Body = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)
	urlEncoded = regexp.MustCompile(`^[^=&\s]+=[^=&\s]*(?:&[^=&\s]+=[^=&\s]*)*$`)
)

// rules are evaluated in order; see the package documentation.
var rules = []rule{
	{label: Empty, match: func(s string) bool { return s == "" }},
	{label: JSON, match: isJSON},
	{label: HTML, match: func(s string) bool { return markup.MatchString(s) && htmlTags.MatchString(s) }},
	{label: XML, match: markup.MatchString},
	{label: CSS, match: cssRule.MatchString},
	{label: JavaScript, match: javaScriptLine.MatchString},
	{label: TypeScript, match: typeScriptLine.MatchString},
	{label: Python, match: pythonLine.MatchString},
	{label: Java, match: javaLine.MatchString},
	{label: YAML, match: yamlLine.MatchString},
	{label: Markdown, match: markdown.MatchString},
	{label: Base64, match: base64Body.MatchString},
	{label: URLEncoded, match: urlEncoded.MatchString},
	{label: CSV, match: isCSV},
}

// Detect returns the label of the first rule that matches the content, after
// stripping a leading byte order mark and surrounding whitespace. Content no
// rule matches is [PlainText]. Detect never fails and is safe for concurrent
// use.
func Detect(text string) Label {
	text = strings.TrimSpace(content.StripBOM(strings.TrimSpace(text)))
	for _, r := range rules {
		if r.match(text) {
			return r.label
		}
	}
	return PlainText
}

// Labels returns every label Detect can produce, in rule order.
func Labels() []Label {
	labels := make([]Label, 0, len(rules)+1)
	for _, r := range rules {
		labels = append(labels, r.label)
	}
	return append(labels, PlainText)
}

// isJSON requires JSON-like brackets at both ends, then a full parse. A
// failed parse only means the rule does not match.
func isJSON(s string) bool {
	return jsonOpen.MatchString(s) && jsonClose.MatchString(s) && json.Valid([]byte(s))
}

// minCSVRows and minCSVFields keep single lines of prose with a comma from
// being reported as CSV.
const (
	minCSVRows   = 2
	minCSVFields = 2
)

// isCSV reports whether the whole content parses as comma separated rows
// with a consistent field count. Quoted fields may contain commas, newlines,
// and doubled quotes.
func isCSV(s string) bool {
	reader := csv.NewReader(strings.NewReader(s))
	reader.FieldsPerRecord = 0 // every row must match the first
	rows := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows >= minCSVRows
		}
		if err != nil || len(record) < minCSVFields {
			return false
		}
		rows++
	}
}
