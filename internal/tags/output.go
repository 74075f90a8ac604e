package tags

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"

	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
	"git.home.luguber.info/inful/doctags/internal/frontmatter"
)

// WritePage replaces the file at path with content, creating parent
// directories as needed.
func WritePage(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ferrors.FileSystemError("failed to create tags folder").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	// #nosec G306 -- generated page is published with the rest of the site
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return ferrors.FileSystemError("failed to write tags page").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}

// ContentHash fingerprints a generated page.
func ContentHash(content []byte) string {
	fm, body, had, _, err := frontmatter.Split(content)
	if err != nil || !had {
		return mdfp.CalculateFingerprintFromParts("", string(content))
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(fm), "\n"), string(body))
}

// HashFile fingerprints the page at path. A missing file hashes to "".
func HashFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", ferrors.FileSystemError("failed to read previous tags page").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return ContentHash(content), nil
}
