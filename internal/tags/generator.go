package tags

import (
	"git.home.luguber.info/inful/doctags/internal/frontmatter"
)

// Generator produces the tags page from records.
type Generator struct {
	renderer Renderer
	pageMeta map[string]any
}

// NewGenerator creates a generator. pageMeta, when non-empty, is written as
// the page's own front-matter block.
func NewGenerator(renderer Renderer, pageMeta map[string]any) *Generator {
	if renderer == nil {
		renderer = DefaultRenderer()
	}
	return &Generator{renderer: renderer, pageMeta: pageMeta}
}

// Generate aggregates records and renders the page.
func (g *Generator) Generate(records []*Record) ([]byte, error) {
	return g.Render(Aggregate(records))
}

// Render renders already aggregated groups.
func (g *Generator) Render(groups []Group) ([]byte, error) {
	body, err := g.renderer.Render(groups)
	if err != nil {
		return nil, err
	}

	header, err := frontmatter.Render(g.pageMeta, frontmatter.Style{Newline: "\n"})
	if err != nil {
		return nil, err
	}
	if header == nil {
		return body, nil
	}
	return append(header, body...), nil
}
