package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstHeading(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "atx h1", body: "# Getting Started\n\ntext\n", want: "Getting Started"},
		{name: "first of several", body: "intro\n\n## Second level\n\n# Later h1\n", want: "Second level"},
		{name: "setext", body: "Setext Title\n============\n\nbody\n", want: "Setext Title"},
		{name: "inline markup", body: "# Using `kubectl` with *care*\n", want: "Using kubectl with care"},
		{name: "link in heading", body: "# See [the guide](guide.md)\n", want: "See the guide"},
		{name: "no heading", body: "just a paragraph\n", want: ""},
		{name: "empty", body: "", want: ""},
		{name: "heading inside code block is ignored", body: "```\n# not a heading\n```\n", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstHeading([]byte(tt.body)))
		})
	}
}

func TestTitle_FallsBackToUntitled(t *testing.T) {
	assert.Equal(t, "Intro", Title([]byte("# Intro\n")))
	assert.Equal(t, Untitled, Title([]byte("no heading here\n")))
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML([]byte("# Tags\n\n## go\n\n- [Intro](intro/)\n"))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `<h1 id="tags">Tags</h1>`)
	assert.Contains(t, html, `<h2 id="go">go</h2>`)
	assert.True(t, strings.Contains(html, `<a href="intro/">Intro</a>`))
}

func TestRenderHTML_GFMTables(t *testing.T) {
	out, err := RenderHTML([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<table>")
}
