// Package config loads and validates the doctags configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "doctags.yaml"

// Config represents the application configuration.
type Config struct {
	DocsDir          string   `yaml:"docs_dir"`
	SiteDir          string   `yaml:"site_dir"`
	UseDirectoryURLs bool     `yaml:"use_directory_urls"`
	MaxPasses        int      `yaml:"max_passes"`
	Exclude          []string `yaml:"exclude,omitempty"`

	// Plugins maps a plugin name to its raw options. Each plugin validates
	// its own options.
	Plugins map[string]map[string]any `yaml:"plugins"`

	History HistoryConfig `yaml:"history"`
	Notify  NotifyConfig  `yaml:"notify"`
	Serve   ServeConfig   `yaml:"serve"`

	// path is the file the configuration was loaded from; empty for in-memory configs.
	path string
}

// HistoryConfig controls the SQLite generation history.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"` // empty disables history
}

// NotifyConfig controls change notifications over NATS.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"` // empty disables notifications
	Subject string `yaml:"subject"`
}

// ServeConfig controls the preview server.
type ServeConfig struct {
	Addr            string        `yaml:"addr"`
	RebuildInterval time.Duration `yaml:"rebuild_interval"`
	Debounce        time.Duration `yaml:"debounce"`
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// PluginOptions returns the raw options for a plugin, or nil when the plugin
// is not configured.
func (c *Config) PluginOptions(name string) map[string]any {
	if c.Plugins == nil {
		return nil
	}
	return c.Plugins[name]
}

// HasPlugin reports whether the plugin appears in the plugins section.
func (c *Config) HasPlugin(name string) bool {
	_, ok := c.Plugins[name]
	return ok
}

// Load reads, expands, defaults and validates the configuration at configPath.
//
// Relative paths inside the file are resolved against the file's directory.
// `.env` files next to the configuration are loaded first so `${VAR}`
// references can use them.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, ferrors.ConfigError("configuration file not found").
			WithContext("path", configPath).Build()
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	loadEnvFiles(filepath.Dir(absPath))

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read config file").
			WithContext("path", absPath).Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, err
	}
	cfg.path = absPath
	cfg.resolvePaths(filepath.Dir(absPath))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration YAML on top of the defaults. Paths are left as written.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{UseDirectoryURLs: true}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func (c *Config) resolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.DocsDir = abs(c.DocsDir)
	c.SiteDir = abs(c.SiteDir)
	c.History.Path = abs(c.History.Path)
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	example := Default()
	example.Exclude = []string{"drafts/**"}
	example.Plugins = map[string]map[string]any{
		"tags": {
			"tags_filename":     "tags.md",
			"tags_folder":       "aux",
			"rebuild_on_change": false,
		},
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# doctags configuration\n# Paths are relative to this file.\n")
	if err := os.WriteFile(configPath, append(header, data...), 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").Build()
	}
	return nil
}
