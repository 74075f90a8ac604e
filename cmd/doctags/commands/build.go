package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/doctags/internal/config"
	"git.home.luguber.info/inful/doctags/internal/site"
	"git.home.luguber.info/inful/doctags/internal/tags"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	MaxPasses int `name:"max-passes" help:"Override max_passes from the configuration"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if b.MaxPasses > 0 {
		cfg.MaxPasses = b.MaxPasses
	}
	return RunBuild(ctx, g, cfg)
}

// RunBuild runs one full build of cfg.
func RunBuild(ctx context.Context, g *Global, cfg *config.Config) error {
	s, err := openSinks(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	_, recorder := newMetrics()
	tp := tags.New(s.options(recorder)...)
	registry, err := newRegistry(cfg, tp)
	if err != nil {
		return err
	}

	report, err := site.NewBuilder(cfg, registry).
		WithRecorder(recorder).
		WithLogger(g.logger()).
		Build(ctx)
	if err != nil {
		return err
	}

	out := g.out()
	_, _ = fmt.Fprintf(out, "Built %d pages and %d assets in %d pass(es)\n", report.Pages, report.Assets, report.Passes)
	if path := tp.OutputPath(); path != "" {
		_, _ = fmt.Fprintf(out, "Tags page: %s (%d documents, %d tags)\n",
			path, tp.Session().Records(), len(tp.Session().Groups()))
	}
	if !report.Converged {
		_, _ = fmt.Fprintln(out, "Warning: pass limit reached before the tags page settled")
	}
	return nil
}
