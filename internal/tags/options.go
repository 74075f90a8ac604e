package tags

import (
	"fmt"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
)

const (
	// DefaultFilename is the name of the generated page.
	DefaultFilename = "tags.md"

	// DefaultFolder holds the generated page, relative to the parent of the docs directory.
	DefaultFolder = "aux"
)

// Options is the plugin's section of the configuration file.
type Options struct {
	Filename        string         `yaml:"tags_filename"`
	Folder          string         `yaml:"tags_folder"`
	Template        string         `yaml:"tags_template"`
	RebuildOnChange bool           `yaml:"rebuild_on_change"`
	PageMeta        map[string]any `yaml:"page_meta"`
}

// ParseOptions type-checks raw plugin options and applies defaults.
func ParseOptions(raw map[string]any) (Options, error) {
	err := validation.Validate(raw,
		validation.Map(
			validation.Key("tags_filename", validation.By(isString), validation.By(relativePath)).Optional(),
			validation.Key("tags_folder", validation.By(isString)).Optional(),
			validation.Key("tags_template", validation.By(isString)).Optional(),
			validation.Key("rebuild_on_change", validation.By(isBool)).Optional(),
			validation.Key("page_meta", validation.By(isMapping)).Optional(),
		),
	)
	if err != nil {
		return Options{}, ferrors.ConfigError("invalid tags plugin options").WithCause(err).Build()
	}

	var opts Options
	if len(raw) > 0 {
		data, err := yaml.Marshal(raw)
		if err != nil {
			return Options{}, ferrors.ConfigError("invalid tags plugin options").WithCause(err).Build()
		}
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return Options{}, ferrors.ConfigError("invalid tags plugin options").WithCause(err).Build()
		}
	}

	if opts.Filename == "" {
		opts.Filename = DefaultFilename
	}
	if opts.Folder == "" {
		opts.Folder = DefaultFolder
	}
	return opts, nil
}

func isString(value any) error {
	if value == nil {
		return nil
	}
	if _, ok := value.(string); !ok {
		return fmt.Errorf("must be a string, got %T", value)
	}
	return nil
}

func isBool(value any) error {
	if value == nil {
		return nil
	}
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("must be a boolean, got %T", value)
	}
	return nil
}

func isMapping(value any) error {
	switch value.(type) {
	case nil, map[string]any:
		return nil
	default:
		return fmt.Errorf("must be a mapping, got %T", value)
	}
}

func relativePath(value any) error {
	s, _ := value.(string)
	if filepath.IsAbs(s) {
		return fmt.Errorf("must be relative to tags_folder")
	}
	return nil
}
