package plugin

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/doctags/internal/config"
	"git.home.luguber.info/inful/doctags/internal/logfields"
)

// Context gives a hook access to the build it runs in.
type Context struct {
	// Context is the standard Go context for cancellation and deadlines.
	Context context.Context

	// Logger is scoped to the build and, inside a hook, to the plugin.
	Logger *slog.Logger

	// Config is the loaded site configuration.
	Config *config.Config

	// Options holds the plugin's own section of the configuration.
	Options map[string]any

	// BuildID identifies the build; it is shared by all passes.
	BuildID string

	// Pass is the 1-based pass number within the build.
	Pass int
}

// NewContext creates the context for one pass of a build.
func NewContext(ctx context.Context, logger *slog.Logger, cfg *config.Config, buildID string, pass int) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{
		Context: ctx,
		Logger:  logger.With(logfields.BuildID(buildID), logfields.Pass(pass)),
		Config:  cfg,
		BuildID: buildID,
		Pass:    pass,
	}
}

// ForPlugin returns a copy scoped to the named plugin.
func (pc *Context) ForPlugin(name string) *Context {
	scoped := *pc
	scoped.Logger = pc.Logger.With(logfields.Plugin(name))
	scoped.Options = nil
	if pc.Config != nil {
		scoped.Options = pc.Config.PluginOptions(name)
	}
	if scoped.Options == nil {
		scoped.Options = map[string]any{}
	}
	return &scoped
}
