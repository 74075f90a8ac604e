package docs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	derrors "git.home.luguber.info/inful/doctags/internal/docs/errors"
	"git.home.luguber.info/inful/doctags/internal/logfields"
)

// Discovery walks a documentation directory.
type Discovery struct {
	root             string
	destDir          string
	useDirectoryURLs bool
	excludes         []string
}

// NewDiscovery creates a discovery for root publishing into destDir.
// Exclude patterns are doublestar globs matched against slash-separated
// paths relative to root.
func NewDiscovery(root, destDir string, useDirectoryURLs bool, excludes []string) *Discovery {
	return &Discovery{
		root:             root,
		destDir:          destDir,
		useDirectoryURLs: useDirectoryURLs,
		excludes:         excludes,
	}
}

// Discover returns every non-hidden, non-excluded file under root, sorted by path.
func (d *Discovery) Discover() (*Files, error) {
	info, err := os.Stat(d.root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", derrors.ErrDocsDirNotFound, d.root)
	}

	files := NewFiles()
	err = filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == d.root {
			return nil
		}

		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.excluded(rel) {
			slog.Debug("Excluded by pattern", logfields.Path(rel))
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}

		files.Append(NewFile(d.root, rel, d.destDir, d.useDirectoryURLs))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrDocsDirWalkFailed, d.root, err)
	}

	files.SortByPath()
	slog.Debug("Documentation discovered", logfields.Path(d.root), logfields.Count(files.Len()))
	return files, nil
}

func (d *Discovery) excluded(rel string) bool {
	for _, pattern := range d.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Discover walks root with the given settings; see Discovery.Discover.
func Discover(root, destDir string, useDirectoryURLs bool, excludes []string) (*Files, error) {
	return NewDiscovery(root, destDir, useDirectoryURLs, excludes).Discover()
}
