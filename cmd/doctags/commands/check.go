package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/term"

	"git.home.luguber.info/inful/doctags/internal/diff"
	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	NoColor bool `name:"no-color" help:"Disable coloured diff output"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, tp, err := configuredTags(context.Background(), g, root)
	if err != nil {
		return err
	}
	result, err := generateTags(cfg, tp)
	if err != nil {
		return err
	}

	path := tp.OutputPath()
	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ferrors.FileSystemError("failed to read tags page").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	d := diff.Compute(string(current), string(result.Content), path, "generated")
	if !d.Changed {
		_, _ = fmt.Fprintf(g.out(), "%s is up to date\n", path)
		return nil
	}

	_, _ = fmt.Fprint(g.out(), d.Format(!c.NoColor && isTerminal(g.out())))
	return ferrors.ValidationError("tags page is out of date (run 'doctags generate')").
		WithContext("path", path).Build()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
