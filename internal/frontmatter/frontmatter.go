// Package frontmatter splits, decodes and assembles the YAML front-matter
// block at the start of a Markdown document.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front-matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml front-matter start delimiter found but closing delimiter is missing")

// ErrNotMapping indicates the front-matter block decoded to a non-empty value
// that is not a key/value mapping.
var ErrNotMapping = errors.New("yaml front-matter is not a mapping")

// Style captures the newline shape of a document so generated blocks match it.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Split separates YAML front-matter (`---` delimited) from the Markdown body.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input. An empty block (`---` directly followed by `---`) yields
// had=true and an empty frontmatter slice.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	start := len(open)
	if rest := content[start:]; bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, style, nil
	}

	closeSeq := []byte(nl + delimiter + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line has no trailing newline.
		if bytes.HasSuffix(content, []byte(nl+delimiter)) && len(content) >= start+len(delimiter) {
			end := len(content) - len(delimiter)
			return content[start:end], []byte{}, true, style, nil
		}
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, style, nil
}

// Join reassembles a document from raw front-matter and body.
//
// If had is false, Join returns body as-is.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}
	line := []byte(delimiter + nl)

	out := make([]byte, 0, 2*len(line)+len(frontmatter)+len(body))
	out = append(out, line...)
	out = append(out, frontmatter...)
	out = append(out, line...)
	out = append(out, body...)
	return out
}

// ParseYAML parses raw YAML front-matter (without delimiters) into a map.
// An empty block yields an empty map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Decode parses raw front-matter and reports whether it carries any data.
//
// Blocks that decode to an empty or falsy value (null, false, 0, "", empty
// list, empty mapping) return ok=false and no error. A non-empty value that
// is not a mapping returns ErrNotMapping.
func Decode(frontmatter []byte) (fields map[string]any, ok bool, err error) {
	var value any
	if err := yaml.Unmarshal(frontmatter, &value); err != nil {
		return nil, false, err
	}
	if isFalsy(value) {
		return nil, false, nil
	}

	switch m := value.(type) {
	case map[string]any:
		return m, true, nil
	case map[any]any:
		fields = make(map[string]any, len(m))
		for k, v := range m {
			fields[fmt.Sprint(k)] = v
		}
		return fields, true, nil
	default:
		return nil, false, fmt.Errorf("%w: got %T", ErrNotMapping, value)
	}
}

func isFalsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.String:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int64, reflect.Int32:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint64, reflect.Uint32:
		return rv.Uint() == 0
	case reflect.Float64, reflect.Float32:
		return rv.Float() == 0
	default:
		return false
	}
}

func detectStyle(content []byte) Style {
	newline := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		newline = "\r\n"
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
