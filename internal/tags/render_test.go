package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
	"git.home.luguber.info/inful/doctags/internal/markdown"
)

func endToEndRecords() []*Record {
	return []*Record{
		{Title: "Doc 1", Tags: []string{"x"}, Year: intPtr(2019), Filename: "doc1/"},
		{Title: "Doc 2", Tags: []string{"x", "y"}, Year: intPtr(2018), Filename: "doc2/"},
		{Title: "Doc 3", Tags: []string{"y"}, Filename: "doc3/"},
	}
}

func TestDefaultRendererOutput(t *testing.T) {
	out, err := NewGenerator(nil, nil).Generate(endToEndRecords())
	require.NoError(t, err)

	want := "# Contents grouped by tag\n" +
		"\n## x\n\n" +
		"* [Doc 2](doc2/) (2018)\n" +
		"* [Doc 1](doc1/) (2019)\n" +
		"\n## y\n\n" +
		"* [Doc 2](doc2/) (2018)\n" +
		"* [Doc 3](doc3/)\n"
	assert.Equal(t, want, string(out))
}

func TestDefaultRendererNoRecords(t *testing.T) {
	out, err := DefaultRenderer().Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "# Contents grouped by tag\n", string(out))
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := NewGenerator(DefaultRenderer(), map[string]any{"title": "Tags", "hide": []any{"toc"}})
	first, err := g.Generate(endToEndRecords())
	require.NoError(t, err)
	second, err := g.Generate(endToEndRecords())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGeneratorPageMeta(t *testing.T) {
	out, err := NewGenerator(nil, map[string]any{"title": "All tags"}).Generate(nil)
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: All tags\n---\n# Contents grouped by tag\n", string(out))
}

func TestCustomTemplateFuncs(t *testing.T) {
	r, err := NewTemplateRenderer("custom",
		`{{ range .Tags }}{{ lower .Name }}#{{ anchor .Name }}:{{ range .Records }}{{ join .Tags "," }}|{{ .Get "author" }};{{ end }}{{ end }}`)
	require.NoError(t, err)

	out, err := r.Render(Aggregate([]*Record{
		{Title: "a", Tags: []string{"Big Data", "go"}, Extra: map[string]any{"author": "Ana"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, "big data#big-data:Big Data,go|Ana;go#go:Big Data,go|Ana;", string(out))
}

func TestNewFileRenderer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tags.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{{ len .Tags }} tags\n"), 0o600))

	r, err := NewFileRenderer(path)
	require.NoError(t, err)
	out, err := r.Render(Aggregate(endToEndRecords()))
	require.NoError(t, err)
	assert.Equal(t, "2 tags\n", string(out))
}

func TestNewFileRendererMissingIsConfigError(t *testing.T) {
	_, err := NewFileRenderer(filepath.Join(t.TempDir(), "missing.tmpl"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestTemplateErrors(t *testing.T) {
	_, err := NewTemplateRenderer("bad", "{{ range .Tags }")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryTemplate))

	r, err := NewTemplateRenderer("exec", "{{ .Missing.Field }}")
	require.NoError(t, err)
	_, err = r.Render(nil)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryTemplate))
}

func TestAnchor(t *testing.T) {
	tests := map[string]string{
		"Go":         "go",
		"Big Data":   "big-data",
		"snake_case": "snake-case",
		"C++":        "c",
		"  padded  ": "padded",
		"???":        "heading",
		"año 2020":   "ao-2020",
	}
	for in, want := range tests {
		assert.Equal(t, want, Anchor(in), in)
	}
}

func TestAnchorMatchesRenderedHeadingIDs(t *testing.T) {
	out, err := NewGenerator(nil, nil).Generate([]*Record{
		{Title: "t", Tags: []string{"Big Data"}, Filename: "t/"},
	})
	require.NoError(t, err)

	html, err := markdown.RenderHTML(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), `id="`+Anchor("Big Data")+`"`)
}
