package commands

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/doctags/internal/config"
	"git.home.luguber.info/inful/doctags/internal/metrics"
	"git.home.luguber.info/inful/doctags/internal/preview"
	"git.home.luguber.info/inful/doctags/internal/site"
	"git.home.luguber.info/inful/doctags/internal/tags"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `short:"a" help:"Listen address (overrides serve.addr)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Serve.Addr = s.Addr
	}

	sk, err := openSinks(cfg)
	if err != nil {
		return err
	}
	defer sk.Close()

	reg, recorder := newMetrics()
	tp := tags.New(sk.options(recorder)...)
	registry, err := newRegistry(cfg, tp)
	if err != nil {
		return err
	}
	builder := site.NewBuilder(cfg, registry).WithRecorder(recorder).WithLogger(g.logger())

	server := preview.NewServer(cfg, func(ctx context.Context) error {
		_, err := builder.Build(ctx)
		return err
	}, metrics.HTTPHandler(reg))
	if server.Ignore, err = generatedPageFilter(cfg); err != nil {
		return err
	}
	return server.Run(ctx)
}

// generatedPageFilter matches the tags page, so writing it into docs_dir
// does not trigger another rebuild. It is nil when the plugin is disabled.
func generatedPageFilter(cfg *config.Config) (func(path string) bool, error) {
	if !cfg.HasPlugin(tags.Name) {
		return nil, nil
	}
	opts, err := tags.ParseOptions(cfg.PluginOptions(tags.Name))
	if err != nil {
		return nil, err
	}
	page := filepath.Join(tags.ResolveFolder(cfg, opts), filepath.FromSlash(opts.Filename))
	return func(path string) bool { return filepath.Clean(path) == page }, nil
}
