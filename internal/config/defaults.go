package config

import "time"

const (
	defaultDocsDir        = "docs"
	defaultSiteDir        = "site"
	defaultMaxPasses      = 2
	defaultNotifySubject  = "doctags.tags.changed"
	defaultServeAddr      = "127.0.0.1:8000"
	defaultServeDebounce  = 300 * time.Millisecond
	defaultTagsPluginName = "tags"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{UseDirectoryURLs: true}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields. It is idempotent.
func (c *Config) ApplyDefaults() {
	if c.DocsDir == "" {
		c.DocsDir = defaultDocsDir
	}
	if c.SiteDir == "" {
		c.SiteDir = defaultSiteDir
	}
	if c.MaxPasses == 0 {
		c.MaxPasses = defaultMaxPasses
	}
	if c.Plugins == nil {
		c.Plugins = map[string]map[string]any{defaultTagsPluginName: {}}
	}
	for name, opts := range c.Plugins {
		if opts == nil {
			c.Plugins[name] = map[string]any{}
		}
	}
	if c.Notify.Subject == "" {
		c.Notify.Subject = defaultNotifySubject
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = defaultServeAddr
	}
	if c.Serve.Debounce <= 0 {
		c.Serve.Debounce = defaultServeDebounce
	}
}
