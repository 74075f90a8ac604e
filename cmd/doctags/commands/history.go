package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/doctags/internal/config"
	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
	"git.home.luguber.info/inful/doctags/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" help:"Number of generations to show (0 for all)" default:"20"`
	Build string `help:"Only show generations of this build ID"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return ferrors.ConfigError("history is disabled (set history.path)").
			WithContext("path", root.Config).Build()
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	var gens []*history.Generation
	if h.Build != "" {
		gens, err = store.ListByBuild(ctx, h.Build)
	} else {
		gens, err = store.List(ctx, h.Limit)
	}
	if err != nil {
		return err
	}

	if len(gens) == 0 {
		_, _ = fmt.Fprintln(g.out(), "No generations recorded")
		return nil
	}

	w := tabwriter.NewWriter(g.out(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tBUILD\tPASS\tPHASE\tDOCS\tTAGS\tCHANGED\tHASH")
	for _, gen := range gens {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%d\t%t\t%s\n",
			gen.Timestamp.Local().Format(time.DateTime),
			shortID(gen.BuildID), gen.Pass, gen.Phase, gen.Records, gen.Groups, gen.Changed, gen.Hash)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
