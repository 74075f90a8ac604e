package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/doctags/internal/logfields"
	"git.home.luguber.info/inful/doctags/internal/tags"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Stdout bool `help:"Print the page instead of writing it"`
}

func (gc *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, tp, err := configuredTags(context.Background(), g, root)
	if err != nil {
		return err
	}
	result, err := generateTags(cfg, tp)
	if err != nil {
		return err
	}

	if gc.Stdout {
		_, err := g.out().Write(result.Content)
		return err
	}

	if err := tags.WritePage(tp.OutputPath(), result.Content); err != nil {
		return err
	}
	g.logger().Info("Tags page written", logfields.Path(tp.OutputPath()), logfields.Hash(result.Hash))
	_, _ = fmt.Fprintf(g.out(), "Wrote %s (%d documents, %d tags)\n", tp.OutputPath(), result.Records, len(result.Groups))
	return nil
}
