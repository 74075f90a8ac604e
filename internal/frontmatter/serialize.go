package frontmatter

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// SerializeYAML serializes a front-matter map into YAML bytes (without delimiters).
//
// Keys are sorted at every nesting level so the output is stable across runs.
// The returned bytes use the newline style provided by Style (defaults to \n).
// An empty map serializes to an empty slice.
func SerializeYAML(fields map[string]any, style Style) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	node, err := sortedNode(fields)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if nl := style.Newline; nl != "" && nl != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(nl))
	}
	return out, nil
}

// Render produces a complete front-matter block, delimiters included, for fields.
// An empty map yields nil.
func Render(fields map[string]any, style Style) ([]byte, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	raw, err := SerializeYAML(fields, style)
	if err != nil {
		return nil, err
	}
	return Join(raw, nil, true, style), nil
}

func sortedNode(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range keys {
			child, err := sortedNode(vv[k])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, child)
		}
		return n, nil
	case map[any]any:
		converted := make(map[string]any, len(vv))
		for k, val := range vv {
			converted[fmt.Sprint(k)] = val
		}
		return sortedNode(converted)
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			child, err := sortedNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}
