// Package docs models the documents a build works on: where each one comes
// from, where it is published, and the URL it is served under.
package docs

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// File is a source file known to the build, either discovered under the docs
// directory or registered by a plugin.
type File struct {
	SrcDir           string // Absolute directory the file lives in
	Path             string // Slash-separated path relative to SrcDir
	DestDir          string // Site output root
	UseDirectoryURLs bool   // Publish a/b.md as a/b/index.html
	Generated        bool   // Registered by a plugin rather than discovered
}

// NewFile creates a File for path under srcDir.
func NewFile(srcDir, relPath, destDir string, useDirectoryURLs bool) *File {
	return &File{
		SrcDir:           srcDir,
		Path:             filepath.ToSlash(relPath),
		DestDir:          destDir,
		UseDirectoryURLs: useDirectoryURLs,
	}
}

// AbsSrcPath returns the absolute source path.
func (f *File) AbsSrcPath() string {
	return filepath.Join(f.SrcDir, filepath.FromSlash(f.Path))
}

// IsMarkdown reports whether the file is a Markdown document.
func (f *File) IsMarkdown() bool {
	return IsMarkdownPath(f.Path)
}

// IsMarkdownPath reports whether p carries a Markdown extension.
func IsMarkdownPath(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return true
	default:
		return false
	}
}

// DestPath returns the slash-separated output path relative to DestDir.
//
//	guide/intro.md  -> guide/intro/index.html (directory URLs)
//	guide/intro.md  -> guide/intro.html
//	guide/index.md  -> guide/index.html
//	logo.png        -> logo.png
func (f *File) DestPath() string {
	if !f.IsMarkdown() {
		return f.Path
	}
	dir, stem := f.split()
	if isIndexStem(stem) {
		return path.Join(dir, "index.html")
	}
	if f.UseDirectoryURLs {
		return path.Join(dir, stem, "index.html")
	}
	return path.Join(dir, stem+".html")
}

// AbsDestPath returns the absolute output path.
func (f *File) AbsDestPath() string {
	return filepath.Join(f.DestDir, filepath.FromSlash(f.DestPath()))
}

// URL returns the site-relative URL of the published file.
//
// With directory URLs the trailing index.html is dropped; the site root is "./".
func (f *File) URL() string {
	dest := f.DestPath()
	if f.IsMarkdown() && f.UseDirectoryURLs && path.Base(dest) == "index.html" {
		dir := path.Dir(dest)
		if dir == "." {
			return "./"
		}
		dest = dir + "/"
	}
	return (&url.URL{Path: dest}).EscapedPath()
}

func (f *File) split() (dir, stem string) {
	dir = path.Dir(f.Path)
	if dir == "." {
		dir = ""
	}
	base := path.Base(f.Path)
	return dir, strings.TrimSuffix(base, path.Ext(base))
}

func isIndexStem(stem string) bool {
	return stem == "index" || strings.EqualFold(stem, "readme")
}
