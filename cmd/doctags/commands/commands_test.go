package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doctags/internal/config"
	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
)

// project writes a config and docs directory and returns the config path.
func project(t *testing.T, extra string) string {
	t.Helper()
	root := t.TempDir()
	docs := map[string]string{
		"index.md":     "# Welcome\n",
		"guide/go.md":  "---\ntitle: Go guide\ntags: [go, Backend]\nyear: 2021\n---\nBody\n",
		"guide/sql.md": "---\ntags: [backend]\nyear: 2019\n---\n# SQL notes\n",
		"notes.md":     "---\ntags: go\n---\nNo heading here\n",
	}
	for rel, content := range docs {
		p := filepath.Join(root, "docs", filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}

	cfg := "docs_dir: docs\nsite_dir: site\nplugins:\n  tags: {}\n" + extra
	path := filepath.Join(root, "doctags.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(t *testing.T, configPath string, cmd interface {
	Run(*Global, *CLI) error
}) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := cmd.Run(&Global{Out: &out}, &CLI{Config: configPath})
	return out.String(), err
}

func TestGenerateStdout(t *testing.T) {
	cfgPath := project(t, "")

	out, err := run(t, cfgPath, &GenerateCmd{Stdout: true})
	require.NoError(t, err)

	assert.Contains(t, out, "# Contents grouped by tag")
	backend := bytes.Index([]byte(out), []byte("## Backend"))
	golang := bytes.Index([]byte(out), []byte("## go"))
	require.NotEqual(t, -1, backend)
	require.NotEqual(t, -1, golang)
	assert.Less(t, backend, golang, "tags sort case-insensitively")
	assert.Contains(t, out, "* [Go guide](guide/go/) (2021)")
	assert.Contains(t, out, "* [SQL notes](guide/sql/) (2019)")
	assert.Contains(t, out, "* [Untitled](notes/)")

	_, statErr := os.Stat(filepath.Join(filepath.Dir(cfgPath), "aux", "tags.md"))
	assert.True(t, os.IsNotExist(statErr), "--stdout must not write the page")
}

func TestGenerateWritesPageAndCheckPasses(t *testing.T) {
	cfgPath := project(t, "")
	page := filepath.Join(filepath.Dir(cfgPath), "aux", "tags.md")

	_, err := run(t, cfgPath, &CheckCmd{NoColor: true})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	out, err := run(t, cfgPath, &GenerateCmd{})
	require.NoError(t, err)
	assert.Contains(t, out, page)
	assert.FileExists(t, page)

	out, err = run(t, cfgPath, &CheckCmd{NoColor: true})
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
}

func TestCheckPrintsDiffWhenStale(t *testing.T) {
	cfgPath := project(t, "")
	_, err := run(t, cfgPath, &GenerateCmd{})
	require.NoError(t, err)

	doc := filepath.Join(filepath.Dir(cfgPath), "docs", "rust.md")
	require.NoError(t, os.WriteFile(doc, []byte("---\ntags: [rust]\n---\n# Rust\n"), 0o600))

	out, err := run(t, cfgPath, &CheckCmd{NoColor: true})
	require.Error(t, err)
	assert.Contains(t, out, "+ ## rust")
	assert.Contains(t, out, "+ * [Rust](rust/)")
	assert.NotContains(t, out, "\033[")
}

func TestGenerateRequiresTagsPlugin(t *testing.T) {
	cfgPath := project(t, "")
	require.NoError(t, os.WriteFile(cfgPath, []byte("docs_dir: docs\nsite_dir: site\nplugins: {}\n"), 0o600))

	_, err := run(t, cfgPath, &GenerateCmd{Stdout: true})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestShowRawStripsPageMeta(t *testing.T) {
	cfgPath := project(t, "")
	raw := "docs_dir: docs\nsite_dir: site\nplugins:\n  tags:\n    page_meta:\n      title: Tags\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(raw), 0o600))

	out, err := run(t, cfgPath, &ShowCmd{Raw: true, Style: "dark"})
	require.NoError(t, err)
	assert.NotContains(t, out, "title: Tags")
	assert.Contains(t, out, "# Contents grouped by tag")
}

func TestBuildAndHistory(t *testing.T) {
	cfgPath := project(t, "history:\n  path: history.db\n")
	root := filepath.Dir(cfgPath)

	out, err := run(t, cfgPath, &BuildCmd{})
	require.NoError(t, err)
	assert.Contains(t, out, "Built ")
	assert.Contains(t, out, "Tags page: ")
	assert.FileExists(t, filepath.Join(root, "site", "index.html"))
	assert.FileExists(t, filepath.Join(root, "site", "tags.html"))

	out, err = run(t, cfgPath, &HistoryCmd{Limit: 10})
	require.NoError(t, err)
	assert.Contains(t, out, "PHASE")
	assert.Contains(t, out, "on_files")
}

func TestHistoryDisabled(t *testing.T) {
	cfgPath := project(t, "")
	_, err := run(t, cfgPath, &HistoryCmd{Limit: 10})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doctags.yaml")

	out, err := run(t, path, &InitCmd{})
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = run(t, path, &InitCmd{})
	require.Error(t, err)

	_, err = run(t, path, &InitCmd{Force: true})
	require.NoError(t, err)
}

func TestParseLogLevel(t *testing.T) {
	t.Setenv("DOCTAGS_LOG_LEVEL", "warn")
	assert.Equal(t, "WARN", parseLogLevel(false).String())
	assert.Equal(t, "DEBUG", parseLogLevel(true).String())

	t.Setenv("DOCTAGS_LOG_LEVEL", "")
	assert.Equal(t, "INFO", parseLogLevel(false).String())
}

func TestGeneratedPageFilterInsideDocsDir(t *testing.T) {
	cfgPath := project(t, "")
	raw := "docs_dir: docs\nsite_dir: site\nplugins:\n  tags:\n    tags_folder: docs/generated\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(raw), 0o600))
	root := filepath.Dir(cfgPath)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	ignore, err := generatedPageFilter(cfg)
	require.NoError(t, err)
	require.NotNil(t, ignore)

	assert.True(t, ignore(filepath.Join(root, "docs", "generated", "tags.md")))
	assert.False(t, ignore(filepath.Join(root, "docs", "guide", "go.md")))
	assert.False(t, ignore(filepath.Join(root, "docs", "tags.md")))
}

func TestGeneratedPageFilterWithoutTagsPlugin(t *testing.T) {
	cfgPath := project(t, "")
	require.NoError(t, os.WriteFile(cfgPath, []byte("docs_dir: docs\nsite_dir: site\nplugins: {}\n"), 0o600))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	ignore, err := generatedPageFilter(cfg)
	require.NoError(t, err)
	assert.Nil(t, ignore)
}
