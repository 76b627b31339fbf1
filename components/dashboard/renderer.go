package dashboard

import (
	"embed"
	"io"
	"io/fs"

	template "github.com/goliatone/go-template"
)

// Renderer describes the template renderer contract needed by the controller.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

//go:embed templates/*.html templates/**/*.html
var embeddedTemplates embed.FS

// EmbeddedTemplates exposes the built-in templates, e.g. for overlaying.
func EmbeddedTemplates() fs.FS {
	return embeddedTemplates
}

// NewTemplateRenderer creates a go-template renderer. Templates load from
// fsys when given (rooted so that "templates/dashboard.html" exists) and
// from the embedded set otherwise.
func NewTemplateRenderer(fsys ...fs.FS) (Renderer, error) {
	var source fs.FS = embeddedTemplates
	if len(fsys) > 0 && fsys[0] != nil {
		source = fsys[0]
	}
	return template.NewRenderer(
		template.WithFS(source),
		template.WithBaseDir("templates"),
		template.WithExtension(".html"),
	)
}
