package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
)

const maxPassesLimit = 10

// Validate checks the configuration and returns a classified config error.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.DocsDir, validation.Required),
		validation.Field(&c.SiteDir, validation.Required, validation.By(c.siteOutsideDocs)),
		validation.Field(&c.MaxPasses, validation.Required, validation.Min(1), validation.Max(maxPassesLimit)),
		validation.Field(&c.Exclude, validation.Each(validation.By(validGlob))),
		validation.Field(&c.Notify),
		validation.Field(&c.Serve),
	)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration").
			WithContext("path", c.path).Build()
	}
	return nil
}

// Validate validates the notification configuration.
func (n NotifyConfig) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Subject, validation.When(n.NATSURL != "", validation.Required)),
	)
}

// Validate validates the preview server configuration.
func (s ServeConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Addr, validation.Required),
		validation.Field(&s.RebuildInterval, validation.Min(0)),
	)
}

func (c *Config) siteOutsideDocs(value any) error {
	site, _ := value.(string)
	rel, err := filepath.Rel(filepath.Clean(c.DocsDir), filepath.Clean(site))
	if err != nil {
		return nil
	}
	if rel == "." || !strings.HasPrefix(rel, "..") {
		return errors.New("must not be inside docs_dir")
	}
	return nil
}

func validGlob(value any) error {
	pattern, _ := value.(string)
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid glob pattern %q", pattern)
	}
	return nil
}
