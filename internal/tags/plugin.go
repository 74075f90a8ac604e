package tags

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/doctags/internal/config"
	"git.home.luguber.info/inful/doctags/internal/docs"
	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
	"git.home.luguber.info/inful/doctags/internal/history"
	"git.home.luguber.info/inful/doctags/internal/logfields"
	"git.home.luguber.info/inful/doctags/internal/metrics"
	"git.home.luguber.info/inful/doctags/internal/notify"
	"git.home.luguber.info/inful/doctags/internal/plugin"
	"git.home.luguber.info/inful/doctags/internal/version"
)

// Name is the key of the plugin in the configuration's plugins section.
const Name = "tags"

// Plugin generates the tags page during a build.
type Plugin struct {
	opts      Options
	folder    string
	generator *Generator
	session   Session

	recorder metrics.Recorder
	notifier notify.Notifier
	history  history.Store
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithRecorder reports generation metrics to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Plugin) { p.recorder = r }
}

// WithNotifier announces page changes through n.
func WithNotifier(n notify.Notifier) Option {
	return func(p *Plugin) { p.notifier = n }
}

// WithHistory records every generation in s.
func WithHistory(s history.Store) Option {
	return func(p *Plugin) { p.history = s }
}

// New creates the plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{
		recorder: metrics.NoopRecorder{},
		notifier: notify.Noop{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Metadata implements plugin.Plugin.
func (p *Plugin) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        Name,
		Version:     version.Version,
		Type:        plugin.PluginTypeGenerator,
		Description: "Lists documents grouped by front-matter tags",
	}
}

// Validate implements plugin.Plugin.
func (p *Plugin) Validate(options map[string]any) error {
	_, err := ParseOptions(options)
	return err
}

// OnConfig resolves the output folder, creates it and loads the template.
func (p *Plugin) OnConfig(pctx *plugin.Context) error {
	opts, err := ParseOptions(pctx.Options)
	if err != nil {
		return err
	}

	folder := ResolveFolder(pctx.Config, opts)
	if err := os.MkdirAll(folder, 0o750); err != nil {
		return ferrors.FileSystemError("failed to create tags folder").
			WithCause(err).
			WithContext("path", folder).
			Build()
	}

	var renderer Renderer = DefaultRenderer()
	if opts.Template != "" {
		renderer, err = NewFileRenderer(resolveTemplate(pctx.Config, opts.Template))
		if err != nil {
			return err
		}
	}

	p.opts = opts
	p.folder = folder
	p.generator = NewGenerator(renderer, opts.PageMeta)
	pctx.Logger.Debug("Tags plugin configured", logfields.Path(p.OutputPath()))
	return nil
}

// ResolveFolder returns the tags folder for cfg. Relative folders live next
// to the docs directory.
func ResolveFolder(cfg *config.Config, opts Options) string {
	if filepath.IsAbs(opts.Folder) {
		return opts.Folder
	}
	return filepath.Join(filepath.Dir(filepath.Clean(cfg.DocsDir)), opts.Folder)
}

func resolveTemplate(cfg *config.Config, tmpl string) string {
	if filepath.IsAbs(tmpl) || cfg.Path() == "" {
		return tmpl
	}
	return filepath.Join(filepath.Dir(cfg.Path()), tmpl)
}

// OutputPath is where the page is written. It is empty before OnConfig.
func (p *Plugin) OutputPath() string {
	if p.folder == "" {
		return ""
	}
	return filepath.Join(p.folder, filepath.FromSlash(p.opts.Filename))
}

// Folder is the resolved tags folder.
func (p *Plugin) Folder() string { return p.folder }

// Options returns the parsed options.
func (p *Plugin) Options() Options { return p.opts }

// Result is one generated page.
type Result struct {
	Content []byte
	Hash    string
	Records int
	Groups  []Group
}

// Generate collects metadata from files and renders the page without writing it.
func (p *Plugin) Generate(files []*docs.File) (*Result, error) {
	if p.generator == nil {
		return nil, ferrors.InternalError("tags plugin used before configuration").Build()
	}

	documents, err := DocumentsFromFiles(files)
	if err != nil {
		return nil, err
	}
	records, err := Collect(documents)
	if err != nil {
		return nil, err
	}

	groups := Aggregate(records)
	content, err := p.generator.Render(groups)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, r := range records {
		if r != nil {
			count++
		}
	}
	return &Result{Content: content, Hash: ContentHash(content), Records: count, Groups: groups}, nil
}

// OnFiles generates and writes the page, then registers it with the build.
func (p *Plugin) OnFiles(pctx *plugin.Context, files *docs.Files) (*docs.Files, error) {
	start := time.Now()
	defer func() { p.recorder.ObserveHookDuration(plugin.HookFiles, time.Since(start)) }()

	previous, err := HashFile(p.OutputPath())
	if err != nil {
		return nil, err
	}
	p.session.Begin(previous)

	result, err := p.Generate(files.Markdown())
	if err != nil {
		return nil, err
	}
	if err := WritePage(p.OutputPath(), result.Content); err != nil {
		return nil, err
	}
	p.publish(pctx, plugin.HookFiles, result, result.Hash != previous, previous)

	page := docs.NewFile(p.folder, p.opts.Filename, pctx.Config.SiteDir, false)
	page.Generated = true
	if replaced := files.Append(page); replaced != nil && !replaced.Generated {
		pctx.Logger.Warn("Tags page replaces a document with the same path",
			logfields.Path(replaced.Path),
			logfields.File(replaced.AbsSrcPath()))
	}

	pctx.Logger.Info("Tags page generated",
		logfields.Path(p.OutputPath()),
		logfields.Count(result.Records),
		slog.Int("tags", len(result.Groups)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return files, nil
}

// OnPostBuild regenerates the page from the sources and asks for another
// pass when it no longer matches the page this pass published.
func (p *Plugin) OnPostBuild(pctx *plugin.Context) (bool, error) {
	if !p.opts.RebuildOnChange {
		return false, nil
	}
	start := time.Now()
	defer func() { p.recorder.ObserveHookDuration(plugin.HookPostBuild, time.Since(start)) }()

	cfg := pctx.Config
	files, err := docs.Discover(cfg.DocsDir, cfg.SiteDir, cfg.UseDirectoryURLs, cfg.Exclude)
	if err != nil {
		return false, ferrors.DocsError("failed to rediscover documents").WithCause(err).Build()
	}

	result, err := p.Generate(files.Markdown())
	if err != nil {
		return false, err
	}

	hash, changed := Reconcile(p.session.Published(), result.Content)
	if !changed {
		pctx.Logger.Debug("Tags page unchanged after build", logfields.Hash(hash))
		p.recordHistory(pctx, plugin.HookPostBuild, result, false)
		return false, nil
	}

	if err := WritePage(p.OutputPath(), result.Content); err != nil {
		return false, err
	}
	published := p.session.Published()
	p.publish(pctx, plugin.HookPostBuild, result, true, published)
	p.recorder.IncRebuildRequest()
	pctx.Logger.Info("Tags page changed during build, requesting rebuild",
		logfields.Hash(hash), slog.String("previous_hash", published))
	return true, nil
}

func (p *Plugin) publish(pctx *plugin.Context, phase string, result *Result, changed bool, previous string) {
	names := TagNames(result.Groups)
	p.session.Publish(result.Hash, result.Records, names)
	p.recorder.SetRecordsCollected(result.Records)
	p.recorder.SetTagGroups(len(result.Groups))
	p.recordHistory(pctx, phase, result, changed)

	if !changed {
		return
	}
	event := &notify.Event{
		BuildID:      pctx.BuildID,
		Pass:         pctx.Pass,
		Path:         p.OutputPath(),
		Hash:         result.Hash,
		PreviousHash: previous,
		Records:      result.Records,
		Tags:         names,
	}
	if err := p.notifier.Notify(contextOf(pctx), event); err != nil {
		pctx.Logger.Warn("Failed to publish tags change", logfields.Error(err))
	}
}

func (p *Plugin) recordHistory(pctx *plugin.Context, phase string, result *Result, changed bool) {
	if p.history == nil {
		return
	}
	g := &history.Generation{
		BuildID: pctx.BuildID,
		Pass:    pctx.Pass,
		Phase:   phase,
		Records: result.Records,
		Groups:  len(result.Groups),
		Hash:    result.Hash,
		Changed: changed,
	}
	if err := p.history.Append(contextOf(pctx), g); err != nil {
		pctx.Logger.Warn("Failed to record tags generation", logfields.Error(err))
	}
}

func contextOf(pctx *plugin.Context) context.Context {
	if pctx.Context == nil {
		return context.Background()
	}
	return pctx.Context
}

// Session exposes the plugin's per-build state.
func (p *Plugin) Session() *Session { return &p.session }

var (
	_ plugin.ConfigHook    = (*Plugin)(nil)
	_ plugin.FilesHook     = (*Plugin)(nil)
	_ plugin.PostBuildHook = (*Plugin)(nil)
)
