package tags

import (
	"bytes"
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
)

//go:embed templates/tags.md.tmpl
var defaultTemplate string

// Renderer turns sorted tag groups into page text.
type Renderer interface {
	Render(groups []Group) ([]byte, error)
}

// PageData is the value templates execute against.
type PageData struct {
	Tags []Group
}

// TemplateRenderer renders groups with a text/template.
type TemplateRenderer struct {
	tmpl *template.Template
}

var templateFuncs = template.FuncMap{
	"lower":  strings.ToLower,
	"join":   strings.Join,
	"anchor": Anchor,
}

// NewTemplateRenderer parses text as a page template.
func NewTemplateRenderer(name, text string) (*TemplateRenderer, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs).Parse(text)
	if err != nil {
		return nil, ferrors.TemplateError("failed to parse tags template").
			WithCause(err).
			WithContext("template", name).
			Build()
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

// DefaultRenderer returns the renderer for the built-in template.
func DefaultRenderer() *TemplateRenderer {
	r, err := NewTemplateRenderer("tags.md.tmpl", defaultTemplate)
	if err != nil {
		panic(err)
	}
	return r
}

// NewFileRenderer loads a user template from path.
func NewFileRenderer(path string) (*TemplateRenderer, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ferrors.ConfigError("tags template not found").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	if err != nil {
		return nil, ferrors.FileSystemError("failed to read tags template").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return NewTemplateRenderer(filepath.Base(path), string(data))
}

// Render executes the template for groups.
func (r *TemplateRenderer) Render(groups []Group) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, PageData{Tags: groups}); err != nil {
		return nil, ferrors.TemplateError("failed to render tags page").
			WithCause(err).
			WithContext("template", r.tmpl.Name()).
			Build()
	}
	return buf.Bytes(), nil
}

// Anchor returns the heading ID the site renderer assigns to a heading with
// text name: ASCII letters and digits lowercased, spaces, hyphens and
// underscores turned into hyphens, everything else dropped.
func Anchor(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + 'a' - 'A')
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == ' ' || c == '\t' || c == '-' || c == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "heading"
	}
	return b.String()
}
