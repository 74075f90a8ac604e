package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePageCreatesParentsAndOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aux", "nested", "tags.md")

	require.NoError(t, WritePage(path, []byte("first, and longer\n")))
	require.NoError(t, WritePage(path, []byte("second\n")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(got))
}

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("# Tags\n\n## go\n"))
	assert.NotEmpty(t, a)
	assert.Equal(t, a, ContentHash([]byte("# Tags\n\n## go\n")))
	assert.NotEqual(t, a, ContentHash([]byte("# Tags\n\n## rust\n")))

	withMeta := ContentHash([]byte("---\ntitle: Tags\n---\n# Tags\n\n## go\n"))
	assert.NotEqual(t, a, withMeta)
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()

	missing, err := HashFile(filepath.Join(dir, "tags.md"))
	require.NoError(t, err)
	assert.Empty(t, missing)

	path := filepath.Join(dir, "tags.md")
	require.NoError(t, os.WriteFile(path, []byte("# Tags\n"), 0o600))
	got, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, ContentHash([]byte("# Tags\n")), got)
}

func TestReconcile(t *testing.T) {
	content := []byte("# Tags\n")
	hash, changed := Reconcile("", content)
	assert.True(t, changed)

	again, changed := Reconcile(hash, content)
	assert.False(t, changed)
	assert.Equal(t, hash, again)

	_, changed = Reconcile(hash, []byte("# Other\n"))
	assert.True(t, changed)
}

func TestSessionBeginResets(t *testing.T) {
	var s Session
	s.Begin("old")
	s.Publish("new", 3, []string{"a"})
	assert.Equal(t, "old", s.Previous())
	assert.Equal(t, "new", s.Published())
	assert.Equal(t, 3, s.Records())
	assert.Equal(t, []string{"a"}, s.Groups())

	s.Begin("next")
	assert.Equal(t, "next", s.Previous())
	assert.Empty(t, s.Published())
	assert.Zero(t, s.Records())
	assert.Nil(t, s.Groups())
}
