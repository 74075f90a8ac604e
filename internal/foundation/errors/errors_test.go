package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "doctags.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, exists := err.Context().GetString("file")
		require.True(t, exists)
		assert.Equal(t, "doctags.yaml", file)
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		assert.True(t, IsClassified(err))
		assert.True(t, HasCategory(err, CategoryConfig))
		assert.True(t, err.IsFatal())
	})

	t.Run("Wrapped classified errors are found", func(t *testing.T) {
		inner := DocsError("decode front-matter").WithContext("file", "a.md").Build()
		outer := fmt.Errorf("collect: %w", inner)

		classified, ok := AsClassified(outer)
		require.True(t, ok)
		assert.Equal(t, CategoryDocs, classified.Category())
		assert.Equal(t, CategoryDocs, GetCategory(outer))
	})

	t.Run("Unclassified errors default to internal", func(t *testing.T) {
		assert.Equal(t, CategoryInternal, GetCategory(errors.New("boom")))
		assert.False(t, HasCategory(errors.New("boom"), CategoryDocs))
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("original error")
	err := WrapError(originalErr, CategoryFileSystem, "write tags page").
		Warning().
		WithContext("path", "aux/tags.md").
		Build()

	assert.Equal(t, CategoryFileSystem, err.Category())
	assert.Equal(t, SeverityWarning, err.Severity())
	assert.ErrorIs(t, err, originalErr)
	assert.Equal(t, "[filesystem:warning] write tags page: original error", err.Error())
}

func TestClassifiedError_WithContextDoesNotMutateOriginal(t *testing.T) {
	base := TemplateError("parse template").Build()
	derived := base.WithContext("template", "custom.tmpl")

	_, inBase := base.Context().Get("template")
	assert.False(t, inBase)
	v, ok := derived.Context().GetString("template")
	require.True(t, ok)
	assert.Equal(t, "custom.tmpl", v)
}

func TestClassifiedError_Is(t *testing.T) {
	a := ValidationError("tags page is stale").Build()
	b := ValidationError("tags page is stale").WithContext("path", "x").Build()

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, ConfigError("tags page is stale").Build()))
}

func TestErrorContext_Merge(t *testing.T) {
	var nilCtx ErrorContext
	other := ErrorContext{"a": 1}
	assert.Equal(t, other, nilCtx.Merge(other))

	merged := ErrorContext{"a": 1, "b": 2}.Merge(ErrorContext{"b": 3})
	assert.Equal(t, ErrorContext{"a": 1, "b": 3}, merged)
}
