package helper

import (
	"bytes"
	"html/template"
	"log"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in news bodies is omitted from the output (WithUnsafe is not set).
var newsMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderNewsBody turns a free-text news body into HTML, keeping line breaks
// and turning bare URLs into links.
func RenderNewsBody(src string) template.HTML {
	var buf bytes.Buffer
	if err := newsMarkdown.Convert([]byte(src), &buf); err != nil {
		log.Printf("[WARN] render news body: %v", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}
