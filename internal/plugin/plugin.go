// Package plugin defines how build plugins hook into the site pipeline.
//
// A plugin implements Plugin plus any of the hook interfaces. The pipeline
// calls hooks in registration order at fixed points of every pass.
package plugin

import (
	"fmt"

	"git.home.luguber.info/inful/doctags/internal/docs"
)

// Plugin is a named, versioned extension of the build pipeline.
type Plugin interface {
	// Metadata returns the plugin's identity.
	Metadata() Metadata

	// Validate checks the plugin's options from the configuration file.
	Validate(options map[string]any) error
}

// ConfigHook runs once per pass before files are discovered.
type ConfigHook interface {
	OnConfig(pctx *Context) error
}

// FilesHook runs after discovery and may register additional files.
type FilesHook interface {
	OnFiles(pctx *Context, files *docs.Files) (*docs.Files, error)
}

// PageHook runs for every Markdown page before it is rendered.
type PageHook interface {
	OnPageMarkdown(pctx *Context, page *docs.Page) error
}

// PostBuildHook runs after the site is written. Returning true asks the
// pipeline for another pass.
type PostBuildHook interface {
	OnPostBuild(pctx *Context) (rebuild bool, err error)
}

// Metadata describes a plugin.
type Metadata struct {
	Name        string
	Version     string
	Type        PluginType
	Description string
}

// String returns a human-readable representation of the plugin metadata.
func (m Metadata) String() string {
	return fmt.Sprintf("%s@%s (%s)", m.Name, m.Version, m.Type)
}

// Validate checks if the plugin metadata is valid.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid plugin type: %s", m.Type)
	}
	return nil
}

// BasePlugin provides default implementations for optional methods.
type BasePlugin struct{}

// Validate accepts any options.
func (b *BasePlugin) Validate(options map[string]any) error {
	return nil
}
