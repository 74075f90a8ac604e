package plugin

import (
	"fmt"
	"sync"

	"git.home.luguber.info/inful/doctags/internal/config"
	"git.home.luguber.info/inful/doctags/internal/docs"
	"git.home.luguber.info/inful/doctags/internal/logfields"
)

// Registry holds the plugins available to a build, in registration order.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	plugins map[string]Plugin
	enabled map[string]bool
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
		enabled: make(map[string]bool),
	}
}

// Register adds a plugin to the registry. Registered plugins are enabled
// until Configure says otherwise.
func (r *Registry) Register(plugin Plugin) error {
	if plugin == nil {
		return fmt.Errorf("cannot register nil plugin")
	}

	metadata := plugin.Metadata()
	if err := metadata.Validate(); err != nil {
		return fmt.Errorf("invalid plugin metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[metadata.Name]; exists {
		return fmt.Errorf("plugin %s already registered", metadata.Name)
	}

	r.plugins[metadata.Name] = plugin
	r.order = append(r.order, metadata.Name)
	r.enabled[metadata.Name] = true
	return nil
}

// Get retrieves a plugin by name.
func (r *Registry) Get(name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugin, ok := r.plugins[name]
	if !ok {
		return nil, fmt.Errorf("plugin %s not found", name)
	}
	return plugin, nil
}

// Has checks if a plugin with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.plugins[name]
	return ok
}

// List returns all registered plugins in registration order.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.plugins[name])
	}
	return result
}

// Enabled returns the plugins that hooks run for, in registration order.
func (r *Registry) Enabled() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Plugin
	for _, name := range r.order {
		if r.enabled[name] {
			result = append(result, r.plugins[name])
		}
	}
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.plugins)
}

// Configure enables exactly the plugins listed in cfg and validates their
// options. Listing a plugin that is not registered is an error.
func (r *Registry) Configure(cfg *config.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name := range cfg.Plugins {
		if _, ok := r.plugins[name]; !ok {
			return NewPluginError(name, HookValidate, fmt.Errorf("plugin is not registered"))
		}
	}

	for _, name := range r.order {
		r.enabled[name] = cfg.HasPlugin(name)
		if !r.enabled[name] {
			continue
		}
		if err := r.plugins[name].Validate(cfg.PluginOptions(name)); err != nil {
			return NewPluginError(name, HookValidate, err)
		}
	}
	return nil
}

// RunConfigHooks calls OnConfig on every enabled plugin that implements it.
func (r *Registry) RunConfigHooks(pctx *Context) error {
	for _, p := range r.Enabled() {
		hook, ok := p.(ConfigHook)
		if !ok {
			continue
		}
		name := p.Metadata().Name
		scoped := pctx.ForPlugin(name)
		scoped.Logger.Debug("Running hook", logfields.Hook(HookConfig))
		if err := hook.OnConfig(scoped); err != nil {
			return NewPluginError(name, HookConfig, err)
		}
	}
	return nil
}

// RunFilesHooks threads files through every enabled FilesHook.
func (r *Registry) RunFilesHooks(pctx *Context, files *docs.Files) (*docs.Files, error) {
	for _, p := range r.Enabled() {
		hook, ok := p.(FilesHook)
		if !ok {
			continue
		}
		name := p.Metadata().Name
		scoped := pctx.ForPlugin(name)
		scoped.Logger.Debug("Running hook", logfields.Hook(HookFiles))
		out, err := hook.OnFiles(scoped, files)
		if err != nil {
			return nil, NewPluginError(name, HookFiles, err)
		}
		if out != nil {
			files = out
		}
	}
	return files, nil
}

// RunPageHooks calls OnPageMarkdown on every enabled plugin that implements it.
func (r *Registry) RunPageHooks(pctx *Context, page *docs.Page) error {
	for _, p := range r.Enabled() {
		hook, ok := p.(PageHook)
		if !ok {
			continue
		}
		name := p.Metadata().Name
		if err := hook.OnPageMarkdown(pctx.ForPlugin(name), page); err != nil {
			return NewPluginError(name, HookPage, err)
		}
	}
	return nil
}

// RunPostBuildHooks calls every PostBuildHook and reports whether any of
// them asked for another pass.
func (r *Registry) RunPostBuildHooks(pctx *Context) (bool, error) {
	rebuild := false
	for _, p := range r.Enabled() {
		hook, ok := p.(PostBuildHook)
		if !ok {
			continue
		}
		name := p.Metadata().Name
		scoped := pctx.ForPlugin(name)
		scoped.Logger.Debug("Running hook", logfields.Hook(HookPostBuild))
		again, err := hook.OnPostBuild(scoped)
		if err != nil {
			return false, NewPluginError(name, HookPostBuild, err)
		}
		if again {
			scoped.Logger.Info("Plugin requested another pass")
			rebuild = true
		}
	}
	return rebuild, nil
}
