package site

import (
	"bytes"
	_ "embed"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/doctags/internal/docs"
	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
	"git.home.luguber.info/inful/doctags/internal/markdown"
	"git.home.luguber.info/inful/doctags/internal/version"
)

//go:embed templates/page.html
var pageShell string

var shell = template.Must(template.New("page").Parse(pageShell))

type shellData struct {
	Title   string
	Content template.HTML
	Version string
}

// renderPage converts page to a complete HTML document.
func renderPage(page *docs.Page) ([]byte, error) {
	body, err := markdown.RenderHTML(page.Markdown)
	if err != nil {
		return nil, ferrors.BuildError("failed to render markdown").
			WithCause(err).
			WithContext("path", page.File.Path).
			Build()
	}

	var buf bytes.Buffer
	// #nosec G203 -- goldmark output with raw HTML disabled
	data := shellData{Title: page.Title, Content: template.HTML(body), Version: version.Version}
	if err := shell.Execute(&buf, data); err != nil {
		return nil, ferrors.TemplateError("failed to render page shell").
			WithCause(err).
			WithContext("path", page.File.Path).
			Build()
	}
	return buf.Bytes(), nil
}

func writeOutput(dest string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return ferrors.FileSystemError("failed to create output directory").WithCause(err).WithContext("path", dest).Build()
	}
	// #nosec G306 -- site output is world readable
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return ferrors.FileSystemError("failed to write output").WithCause(err).WithContext("path", dest).Build()
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return ferrors.FileSystemError("failed to open asset").WithCause(err).WithContext("path", src).Build()
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return ferrors.FileSystemError("failed to create output directory").WithCause(err).WithContext("path", dest).Build()
	}
	out, err := os.Create(dest)
	if err != nil {
		return ferrors.FileSystemError("failed to create asset").WithCause(err).WithContext("path", dest).Build()
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return ferrors.FileSystemError("failed to copy asset").WithCause(err).WithContext("path", dest).Build()
	}
	if err := out.Close(); err != nil {
		return ferrors.FileSystemError("failed to copy asset").WithCause(err).WithContext("path", dest).Build()
	}
	return nil
}
