package plugin

import "fmt"

// PluginType identifies the category of plugin.
type PluginType string

const (
	// PluginTypeGenerator produces additional pages from the documentation set.
	PluginTypeGenerator PluginType = "generator"

	// PluginTypeTransform modifies page content before rendering.
	PluginTypeTransform PluginType = "transform"
)

// IsValid returns true if the plugin type is recognized.
func (t PluginType) IsValid() bool {
	switch t {
	case PluginTypeGenerator, PluginTypeTransform:
		return true
	default:
		return false
	}
}

// String returns the string representation of the plugin type.
func (t PluginType) String() string {
	return string(t)
}

// Hook names used in errors and logs.
const (
	HookConfig    = "on_config"
	HookFiles     = "on_files"
	HookPage      = "on_page_markdown"
	HookPostBuild = "on_post_build"
	HookValidate  = "validate"
)

// PluginError represents an error that occurred within a plugin.
type PluginError struct {
	// PluginName identifies which plugin failed.
	PluginName string

	// Operation is the hook that was running.
	Operation string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s failed during %s: %v", e.PluginName, e.Operation, e.Err)
}

// Unwrap returns the underlying error for error inspection.
func (e *PluginError) Unwrap() error {
	return e.Err
}

// NewPluginError creates a new plugin error.
func NewPluginError(pluginName, operation string, err error) *PluginError {
	return &PluginError{
		PluginName: pluginName,
		Operation:  operation,
		Err:        err,
	}
}
