package tags

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/doctags/internal/docs"
	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
	"git.home.luguber.info/inful/doctags/internal/frontmatter"
	"git.home.luguber.info/inful/doctags/internal/markdown"
)

// Document is a source document offered to the collector.
type Document struct {
	Path    string // Source path relative to the docs directory
	URL     string // Site-relative URL recorded as Record.Filename
	Content []byte
}

// DocumentsFromFiles reads the Markdown files among files. Files registered
// by plugins are skipped.
func DocumentsFromFiles(files []*docs.File) ([]Document, error) {
	out := make([]Document, 0, len(files))
	for _, f := range files {
		if f.Generated || !f.IsMarkdown() {
			continue
		}
		content, err := os.ReadFile(f.AbsSrcPath())
		if err != nil {
			return nil, ferrors.FileSystemError("failed to read document").
				WithCause(err).
				WithContext("path", f.Path).
				Build()
		}
		out = append(out, Document{Path: f.Path, URL: f.URL(), Content: content})
	}
	return out, nil
}

// Collect extracts one record per document, in input order. Entries are nil
// for non-Markdown documents and documents without metadata.
func Collect(documents []Document) ([]*Record, error) {
	records := make([]*Record, len(documents))
	for i, doc := range documents {
		if !docs.IsMarkdownPath(doc.Path) {
			continue
		}
		record, err := ExtractRecord(doc.Content, doc.URL)
		if err != nil {
			return nil, classify(err, doc.Path)
		}
		records[i] = record
	}
	return records, nil
}

func classify(err error, path string) error {
	var b *ferrors.ErrorBuilder
	switch {
	case errors.Is(err, ErrInvalidTags), errors.Is(err, ErrInvalidYear):
		b = ferrors.ValidationError("invalid document metadata")
	default:
		b = ferrors.DocsError("invalid front-matter")
	}
	return b.WithCause(err).WithContext("path", path).Build()
}

// ExtractRecord builds the record for one document.
//
// It returns nil when the document has no front-matter block, when the block
// is never closed, or when the block is empty or falsy. YAML that does not
// decode to a mapping is an error.
func ExtractRecord(content []byte, filename string) (*Record, error) {
	fm, body, had, _, err := frontmatter.Split(content)
	if errors.Is(err, frontmatter.ErrMissingClosingDelimiter) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !had {
		return nil, nil
	}

	fields, ok, err := frontmatter.Decode(fm)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	tags, err := parseTags(fields[KeyTags])
	if err != nil {
		return nil, err
	}
	year, err := parseYear(fields[KeyYear])
	if err != nil {
		return nil, err
	}

	record := &Record{
		Title:    parseTitle(fields[KeyTitle], body),
		Tags:     tags,
		Year:     year,
		Filename: filename,
	}
	for k, v := range fields {
		switch k {
		case KeyTitle, KeyTags, KeyYear, KeyFilename:
			continue
		}
		if record.Extra == nil {
			record.Extra = make(map[string]any)
		}
		record.Extra[k] = v
	}
	return record, nil
}

// parseTitle falls back to the first heading when title is missing, null or
// blank.
func parseTitle(v any, body []byte) string {
	if v != nil {
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			return s
		}
	}
	return markdown.Title(body)
}

// parseTags accepts a list of scalars or a single string. Blank entries and
// exact duplicates are dropped.
func parseTags(v any) ([]string, error) {
	var items []any
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		items = []any{t}
	case []any:
		items = t
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidTags, v)
	}

	var tags []string
	for _, item := range items {
		var s string
		switch it := item.(type) {
		case nil:
			continue
		case string:
			s = it
		case int, int64, uint64, float64, bool:
			s = fmt.Sprint(it)
		default:
			return nil, fmt.Errorf("%w: list entry of type %T", ErrInvalidTags, item)
		}
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(tags, s) {
			continue
		}
		tags = append(tags, s)
	}
	return tags, nil
}

func parseYear(v any) (*int, error) {
	var year int
	switch t := v.(type) {
	case nil:
		return nil, nil
	case int:
		year = t
	case int64:
		year = int(t)
	case uint64:
		if t > math.MaxInt {
			return nil, fmt.Errorf("%w: %d out of range", ErrInvalidYear, t)
		}
		year = int(t)
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || t >= math.MaxInt || t < math.MinInt {
			return nil, fmt.Errorf("%w: got %v", ErrInvalidYear, t)
		}
		year = int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidYear, t)
		}
		year = n
	case time.Time:
		year = t.Year()
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidYear, v)
	}
	return &year, nil
}
