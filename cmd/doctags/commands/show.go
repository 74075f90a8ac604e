package commands

import (
	"context"

	"github.com/charmbracelet/glamour"

	"git.home.luguber.info/inful/doctags/internal/frontmatter"
)

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	Raw   bool   `help:"Print Markdown without terminal rendering"`
	Style string `help:"glamour style" default:"dark" enum:"dark,light,notty,ascii,dracula,pink"`
}

func (s *ShowCmd) Run(g *Global, root *CLI) error {
	cfg, tp, err := configuredTags(context.Background(), g, root)
	if err != nil {
		return err
	}
	result, err := generateTags(cfg, tp)
	if err != nil {
		return err
	}

	// page_meta would render as a horizontal rule and a paragraph
	body := result.Content
	if _, b, had, _, splitErr := frontmatter.Split(result.Content); splitErr == nil && had {
		body = b
	}

	out := g.out()
	if !s.Raw && isTerminal(out) {
		rendered, err := glamour.Render(string(body), s.Style)
		if err != nil {
			return err
		}
		_, err = out.Write([]byte(rendered))
		return err
	}
	_, err = out.Write(body)
	return err
}
