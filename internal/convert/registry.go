// Package convert holds the converter catalog and the pipeline that applies a
// user-ordered flow of converters to an input string.
package convert

import (
	"fmt"
	"slices"
	"strings"

	"github.com/stolasapp/ende/internal/content"
)

// Group partitions the catalog into encoders and decoders.
type Group string

// Converter groups.
const (
	Encode Group = "encode"
	Decode Group = "decode"
)

// Groups lists the converter groups in display order.
func Groups() []Group { return []Group{Encode, Decode} }

// ParseGroup resolves a group name, case-insensitively.
func ParseGroup(name string) (Group, error) {
	switch group := Group(strings.ToLower(strings.TrimSpace(name))); group {
	case Encode, Decode:
		return group, nil
	default:
		return "", ErrUnknownGroup
	}
}

// Converter is a named, pure text transform that belongs to one group.
type Converter struct {
	content.Transformer

	ID    string
	Name  string
	Group Group
}

// Ref returns the fully qualified step reference for the converter, as
// accepted by [Resolve].
func (c Converter) Ref() string { return string(c.Group) + refSeparator + c.ID }

const refSeparator = "/"

var catalog = map[Group][]Converter{
	Encode: {
		{ID: "base64", Name: "Base64 Encode", Transformer: content.Base64Encode()},
		{ID: "uri", Name: "URI Encode", Transformer: content.URIEncode()},
		{ID: "json", Name: "JSON Stringify", Transformer: content.JSONStringify()},
		{ID: "base64url", Name: "Base64URL Encode", Transformer: content.Base64URLEncode()},
		{ID: "hex", Name: "Hex Encode", Transformer: content.HexEncode()},
		{ID: "html-escape", Name: "HTML Escape", Transformer: content.EscapeHTML()},
		{ID: "markdown-html", Name: "Markdown to HTML", Transformer: content.RenderMarkdown()},
	},
	Decode: {
		{ID: "base64-decode", Name: "Base64 Decode", Transformer: content.Base64Decode()},
		{ID: "uri-decode", Name: "URI Decode", Transformer: content.URIDecode()},
		{ID: "json-parse", Name: "JSON Parse", Transformer: content.JSONParse()},
		{ID: "base64url-decode", Name: "Base64URL Decode", Transformer: content.Base64URLDecode()},
		{ID: "hex-decode", Name: "Hex Decode", Transformer: content.HexDecode()},
		{ID: "html-unescape", Name: "HTML Unescape", Transformer: content.UnescapeHTML()},
		{ID: "html-markdown", Name: "HTML to Markdown", Transformer: content.DocumentToMarkdown()},
		{ID: "html-text", Name: "HTML to Text", Transformer: content.DocumentToText()},
		{ID: "utf8", Name: "Normalize UTF-8", Transformer: content.NormalizeUTF8()},
	},
}

func init() {
	for group, converters := range catalog {
		for i := range converters {
			converters[i].Group = group
		}
	}
}

// List returns the converters of a group in catalog order. Unknown groups
// yield an empty list.
func List(group Group) []Converter {
	return slices.Clone(catalog[group])
}

// Find looks up a converter by ID within a group. An [ErrNotFound] is returned
// if the group has no such converter.
func Find(group Group, id string) (Converter, error) {
	idx := slices.IndexFunc(catalog[group], func(c Converter) bool { return c.ID == id })
	if idx == -1 {
		return Converter{}, ErrNotFound
	}
	return catalog[group][idx], nil
}

// Resolve looks up a step reference. A reference is either "group/id" or a
// bare id, which is searched for in the encode group and then the decode
// group.
func Resolve(ref string) (Converter, error) {
	conv, err := resolve(strings.TrimSpace(ref))
	if err != nil {
		return Converter{}, fmt.Errorf("step %q: %w", ref, err)
	}
	return conv, nil
}

func resolve(ref string) (Converter, error) {
	if groupName, id, ok := strings.Cut(ref, refSeparator); ok {
		group, err := ParseGroup(groupName)
		if err != nil {
			return Converter{}, err
		}
		return Find(group, id)
	}
	for _, group := range Groups() {
		if conv, err := Find(group, ref); err == nil {
			return conv, nil
		}
	}
	return Converter{}, ErrNotFound
}
