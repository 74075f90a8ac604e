// Package commands implements the doctags command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/doctags/internal/config"
	"git.home.luguber.info/inful/doctags/internal/docs"
	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
	"git.home.luguber.info/inful/doctags/internal/history"
	"git.home.luguber.info/inful/doctags/internal/logfields"
	"git.home.luguber.info/inful/doctags/internal/metrics"
	"git.home.luguber.info/inful/doctags/internal/notify"
	"git.home.luguber.info/inful/doctags/internal/plugin"
	"git.home.luguber.info/inful/doctags/internal/tags"
)

// Global is passed to every command.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"doctags.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build the site and the tags page"`
	Generate GenerateCmd `cmd:"" help:"Generate only the tags page"`
	Check    CheckCmd    `cmd:"" help:"Fail when the tags page on disk is out of date"`
	Show     ShowCmd     `cmd:"" help:"Render the tags page in the terminal"`
	Serve    ServeCmd    `cmd:"" help:"Serve the site and rebuild on change"`
	History  HistoryCmd  `cmd:"" help:"List recorded tags page generations"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel uses --verbose, then DOCTAGS_LOG_LEVEL, then info.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DOCTAGS_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// sinks are the optional outputs of the tags plugin.
type sinks struct {
	notifier notify.Notifier
	history  history.Store
}

// openSinks connects the notifier and history store enabled in cfg.
func openSinks(cfg *config.Config) (*sinks, error) {
	s := &sinks{notifier: notify.Noop{}}
	if cfg.History.Path != "" {
		store, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		s.history = store
	}
	if cfg.Notify.NATSURL != "" {
		n, err := notify.NewNATSNotifier(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.notifier = n
	}
	return s, nil
}

func (s *sinks) options(recorder metrics.Recorder) []tags.Option {
	opts := []tags.Option{tags.WithNotifier(s.notifier)}
	if recorder != nil {
		opts = append(opts, tags.WithRecorder(recorder))
	}
	if s.history != nil {
		opts = append(opts, tags.WithHistory(s.history))
	}
	return opts
}

// Close releases the sinks; errors are logged.
func (s *sinks) Close() {
	if s.notifier != nil {
		if err := s.notifier.Close(); err != nil {
			slog.Warn("Failed to close notifier", logfields.Error(err))
		}
	}
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			slog.Warn("Failed to close history store", logfields.Error(err))
		}
	}
}

// newRegistry registers the built-in plugins and enables the configured ones.
func newRegistry(cfg *config.Config, tp *tags.Plugin) (*plugin.Registry, error) {
	registry := plugin.NewRegistry()
	if err := registry.Register(tp); err != nil {
		return nil, err
	}
	if err := registry.Configure(cfg); err != nil {
		return nil, err
	}
	return registry, nil
}

// newMetrics returns a registry with the doctags collectors registered.
func newMetrics() (*prom.Registry, *metrics.PrometheusRecorder) {
	reg := prom.NewRegistry()
	return reg, metrics.NewPrometheusRecorder(reg)
}

// configuredTags loads cfg and runs the tags plugin's config hook outside a build.
func configuredTags(ctx context.Context, g *Global, root *CLI) (*config.Config, *tags.Plugin, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.HasPlugin(tags.Name) {
		return nil, nil, ferrors.ConfigError("tags plugin is not enabled in the configuration").
			WithContext("path", root.Config).Build()
	}

	tp := tags.New()
	if err := tp.Validate(cfg.PluginOptions(tags.Name)); err != nil {
		return nil, nil, err
	}
	pctx := plugin.NewContext(ctx, g.logger(), cfg, "", 0).ForPlugin(tags.Name)
	if err := tp.OnConfig(pctx); err != nil {
		return nil, nil, err
	}
	return cfg, tp, nil
}

// generateTags discovers the docs directory and renders the page in memory.
func generateTags(cfg *config.Config, tp *tags.Plugin) (*tags.Result, error) {
	files, err := docs.Discover(cfg.DocsDir, cfg.SiteDir, cfg.UseDirectoryURLs, cfg.Exclude)
	if err != nil {
		return nil, ferrors.DocsError("failed to discover documents").
			WithCause(err).
			WithContext("path", cfg.DocsDir).
			Build()
	}
	return tp.Generate(files.All())
}
