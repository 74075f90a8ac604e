// Package site is the build pipeline that drives plugins: it discovers the
// docs directory, runs plugin hooks, renders Markdown pages to HTML and
// copies everything else into the site directory.
package site

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/doctags/internal/config"
	"git.home.luguber.info/inful/doctags/internal/docs"
	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
	"git.home.luguber.info/inful/doctags/internal/logfields"
	"git.home.luguber.info/inful/doctags/internal/metrics"
	"git.home.luguber.info/inful/doctags/internal/plugin"
)

// Builder runs builds for one configuration.
type Builder struct {
	cfg      *config.Config
	registry *plugin.Registry
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Report summarizes a finished build.
type Report struct {
	BuildID   string
	Passes    int
	Pages     int  // Markdown pages rendered in the last pass
	Assets    int  // Other files copied in the last pass
	Converged bool // False when the pass limit stopped further rebuilds
	Duration  time.Duration
}

// NewBuilder creates a builder. The registry should already be configured.
func NewBuilder(cfg *config.Config, registry *plugin.Registry) *Builder {
	if registry == nil {
		registry = plugin.NewRegistry()
	}
	return &Builder{
		cfg:      cfg,
		registry: registry,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// WithLogger sets the logger.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	if l != nil {
		b.logger = l
	}
	return b
}

// Build runs passes until no plugin asks for another one, or until the
// configured maximum number of passes has run.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{BuildID: uuid.NewString()}
	logger := b.logger.With(logfields.BuildID(report.BuildID))

	maxPasses := b.cfg.MaxPasses
	if maxPasses < 1 {
		maxPasses = 1
	}

	for pass := 1; pass <= maxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			b.recorder.IncBuildOutcome(metrics.ResultCanceled)
			return report, ferrors.WrapError(err, ferrors.CategoryRuntime, "build canceled").Build()
		}

		report.Passes = pass
		pctx := plugin.NewContext(ctx, b.logger, b.cfg, report.BuildID, pass)
		rebuild, err := b.runPass(pctx, report)
		if err != nil {
			b.recorder.IncBuildOutcome(metrics.ResultFatal)
			return report, err
		}
		if !rebuild {
			report.Converged = true
			break
		}
		if pass == maxPasses {
			logger.Warn("Pass limit reached; not rebuilding again", logfields.Pass(pass))
		}
	}

	report.Duration = time.Since(start)
	b.recorder.ObserveBuildDuration(report.Duration)
	b.recorder.IncBuildOutcome(metrics.ResultSuccess)
	logger.Info("Build finished",
		slog.Int("passes", report.Passes),
		slog.Int("pages", report.Pages),
		slog.Int("assets", report.Assets),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

func (b *Builder) runPass(pctx *plugin.Context, report *Report) (rebuild bool, err error) {
	start := time.Now()
	defer func() {
		b.recorder.ObservePassDuration(time.Since(start))
		if err != nil {
			b.recorder.IncPassResult(metrics.ResultFatal)
		} else {
			b.recorder.IncPassResult(metrics.ResultSuccess)
		}
	}()

	pctx.Logger.Debug("Starting pass", logfields.Stage(plugin.HookConfig))
	if err := b.timed(plugin.HookConfig, func() error { return b.registry.RunConfigHooks(pctx) }); err != nil {
		return false, err
	}

	files, err := docs.Discover(b.cfg.DocsDir, b.cfg.SiteDir, b.cfg.UseDirectoryURLs, b.cfg.Exclude)
	if err != nil {
		return false, ferrors.DocsError("failed to discover documents").
			WithCause(err).
			WithContext("path", b.cfg.DocsDir).
			Build()
	}

	if err := b.timed(plugin.HookFiles, func() error {
		files, err = b.registry.RunFilesHooks(pctx, files)
		return err
	}); err != nil {
		return false, err
	}

	pages, assets, err := b.publish(pctx, files)
	if err != nil {
		return false, err
	}
	report.Pages, report.Assets = pages, assets
	b.recorder.IncPagesRendered(pages)

	err = b.timed(plugin.HookPostBuild, func() error {
		rebuild, err = b.registry.RunPostBuildHooks(pctx)
		return err
	})
	return rebuild, err
}

// publish renders Markdown files and copies the rest into the site directory.
func (b *Builder) publish(pctx *plugin.Context, files *docs.Files) (pages, assets int, err error) {
	for _, f := range files.All() {
		if err := pctx.Context.Err(); err != nil {
			return pages, assets, ferrors.WrapError(err, ferrors.CategoryRuntime, "build canceled").Build()
		}

		if !f.IsMarkdown() {
			if err := copyFile(f.AbsSrcPath(), f.AbsDestPath()); err != nil {
				return pages, assets, err
			}
			assets++
			continue
		}

		page, err := docs.LoadPage(f)
		if err != nil {
			return pages, assets, ferrors.DocsError("failed to load page").
				WithCause(err).
				WithContext("path", f.Path).
				Build()
		}
		if err := b.registry.RunPageHooks(pctx, page); err != nil {
			return pages, assets, err
		}
		html, err := renderPage(page)
		if err != nil {
			return pages, assets, err
		}
		if err := writeOutput(f.AbsDestPath(), html); err != nil {
			return pages, assets, err
		}
		pctx.Logger.Debug("Rendered page", logfields.Path(f.Path), logfields.URL(f.URL()))
		pages++
	}
	return pages, assets, nil
}

func (b *Builder) timed(hook string, fn func() error) error {
	start := time.Now()
	err := fn()
	b.recorder.ObserveHookDuration(hook, time.Since(start))
	return err
}
