package main

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// newTemplates parses the embedded page templates. Article body text may
// carry inline markup produced by the editor, so paragraphs and captions
// go through safeHTML; everything else stays escaped.
func newTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"heading": func(level int, text string) template.HTML {
			if level < 1 {
				level = 1
			}
			if level > 6 {
				level = 6
			}
			return template.HTML(fmt.Sprintf("<h%d>%s</h%d>", level, text, level))
		},
	}

	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
