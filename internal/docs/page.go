package docs

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	derrors "git.home.luguber.info/inful/doctags/internal/docs/errors"
	"git.home.luguber.info/inful/doctags/internal/frontmatter"
	"git.home.luguber.info/inful/doctags/internal/markdown"
)

// Page is a Markdown document loaded for rendering.
type Page struct {
	File     *File
	Meta     map[string]any // Decoded front-matter, empty when absent
	Markdown []byte         // Body with front-matter stripped
	Title    string
}

// LoadPage reads f and strips its front-matter.
//
// A document whose opening delimiter is never closed is rendered as-is.
func LoadPage(f *File) (*Page, error) {
	content, err := os.ReadFile(f.AbsSrcPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrFileReadFailed, f.Path, err)
	}
	return ParsePage(f, content)
}

// ParsePage builds a Page from already-read content.
func ParsePage(f *File, content []byte) (*Page, error) {
	fm, body, had, _, err := frontmatter.Split(content)
	if errors.Is(err, frontmatter.ErrMissingClosingDelimiter) {
		body, had = content, false
	} else if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrInvalidFrontMatter, f.Path, err)
	}

	meta := map[string]any{}
	if had {
		fields, ok, err := frontmatter.Decode(fm)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", derrors.ErrInvalidFrontMatter, f.Path, err)
		}
		if ok {
			meta = fields
		}
	}

	return &Page{
		File:     f,
		Meta:     meta,
		Markdown: body,
		Title:    pageTitle(meta, body, f.Path),
	}, nil
}

// pageTitle prefers the author title, then the first heading, then the file name.
func pageTitle(meta map[string]any, body []byte, p string) string {
	if t, ok := meta["title"].(string); ok && strings.TrimSpace(t) != "" {
		return t
	}
	if h := markdown.FirstHeading(body); h != "" {
		return h
	}
	base := path.Base(p)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if isIndexStem(stem) {
		return "Home"
	}
	stem = strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	if stem == "" {
		return markdown.Untitled
	}
	return strings.ToUpper(stem[:1]) + stem[1:]
}
