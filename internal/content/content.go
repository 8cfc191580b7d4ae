// Package content contains the text transformers that back the converter
// catalog: byte encodings, escaping, JSON literals, and HTML/Markdown
// rendering.
package content

// Pre-composed pipelines for the rendering converters. Individual
// transformers are built once and shared; all of them are safe for
// concurrent use.
var (
	markdownToHTML  = MarkdownToHTML()
	htmlToMarkdown  = HTMLToMarkdown()
	sanitizeHTML    = SanitizeHTML()
	extractHTMLBody = ExtractHTMLBody()
	normalizeNBSP   = NormalizeNBSP()
	htmlText        = HTMLText()

	renderMarkdownPipeline = Chain(markdownToHTML, sanitizeHTML)
	htmlToMarkdownPipeline = Chain(normalizeNBSP, extractHTMLBody, sanitizeHTML, htmlToMarkdown)
	htmlToTextPipeline     = Chain(normalizeNBSP, htmlText)
)

// RenderMarkdown converts Markdown input into sanitized HTML.
func RenderMarkdown() TransformerFunc { return renderMarkdownPipeline }

// DocumentToMarkdown converts an HTML document (or fragment) into Markdown,
// keeping only the body and dropping unsafe markup.
func DocumentToMarkdown() TransformerFunc { return htmlToMarkdownPipeline }

// DocumentToText extracts the readable text of an HTML document.
func DocumentToText() TransformerFunc { return htmlToTextPipeline }
