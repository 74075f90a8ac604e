package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeYAML_EmptyMap_ReturnsEmpty(t *testing.T) {
	out, err := SerializeYAML(map[string]any{}, Style{Newline: "\n"})
	require.NoError(t, err)
	require.Equal(t, "", string(out))
}

func TestSerializeYAML_DeterministicOrder(t *testing.T) {
	fields := map[string]any{
		"title": "Tags",
		"hide":  []any{"toc", "navigation"},
		"draft": false,
	}

	out1, err := SerializeYAML(fields, Style{Newline: "\n"})
	require.NoError(t, err)
	out2, err := SerializeYAML(fields, Style{Newline: "\n"})
	require.NoError(t, err)
	require.Equal(t, string(out1), string(out2))
	require.Equal(t, "draft: false\nhide:\n  - toc\n  - navigation\ntitle: Tags\n", string(out1))
}

func TestSerializeYAML_NestedMap_SortsKeysRecursively(t *testing.T) {
	fields := map[string]any{
		"outer": map[string]any{"b": 2, "a": 1},
	}

	out, err := SerializeYAML(fields, Style{})
	require.NoError(t, err)
	require.Equal(t, "outer:\n  a: 1\n  b: 2\n", string(out))
}

func TestSerializeYAML_CRLF(t *testing.T) {
	out, err := SerializeYAML(map[string]any{"a": "one"}, Style{Newline: "\r\n"})
	require.NoError(t, err)
	require.Equal(t, "a: one\r\n", string(out))
}

func TestRender_WrapsInDelimiters(t *testing.T) {
	out, err := Render(map[string]any{"title": "Tags"}, Style{})
	require.NoError(t, err)
	require.Equal(t, "---\ntitle: Tags\n---\n", string(out))

	empty, err := Render(nil, Style{})
	require.NoError(t, err)
	require.Nil(t, empty)
}

func TestRender_RoundTripsThroughDecode(t *testing.T) {
	block, err := Render(map[string]any{"title": "Tags", "weight": 10}, Style{})
	require.NoError(t, err)

	raw, _, had, _, err := Split(block)
	require.NoError(t, err)
	require.True(t, had)

	fields, ok, err := Decode(raw)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Tags", fields["title"])
	require.Equal(t, 10, fields["weight"])
}
