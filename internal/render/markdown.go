// Package render turns post bodies written in Markdown into HTML.
package render

import (
	"gitlab.com/golang-commonmark/markdown"
)

// Raw HTML in a post is escaped, not passed through.
var parser = markdown.New(
	markdown.HTML(false),
	markdown.Linkify(true),
	markdown.Typographer(true),
	markdown.MaxNesting(10),
)

// Markdown renders a post body as HTML.
func Markdown(content string) string {
	return parser.RenderToString([]byte(content))
}
