package docs

import "sort"

// Files is the ordered set of files a build publishes.
type Files struct {
	files  []*File
	byPath map[string]*File
}

// NewFiles creates a collection from files, keeping their order.
func NewFiles(files ...*File) *Files {
	fs := &Files{byPath: make(map[string]*File, len(files))}
	for _, f := range files {
		fs.Append(f)
	}
	return fs
}

// Append adds f. A file already registered under the same path is replaced
// in place and returned.
func (fs *Files) Append(f *File) (replaced *File) {
	if existing, ok := fs.byPath[f.Path]; ok {
		for i := range fs.files {
			if fs.files[i] == existing {
				fs.files[i] = f
				break
			}
		}
		replaced = existing
	} else {
		fs.files = append(fs.files, f)
	}
	fs.byPath[f.Path] = f
	return replaced
}

// Get returns the file registered under the slash-separated path.
func (fs *Files) Get(p string) (*File, bool) {
	f, ok := fs.byPath[p]
	return f, ok
}

// All returns every file in order.
func (fs *Files) All() []*File {
	out := make([]*File, len(fs.files))
	copy(out, fs.files)
	return out
}

// Markdown returns the Markdown documents in order.
func (fs *Files) Markdown() []*File {
	var out []*File
	for _, f := range fs.files {
		if f.IsMarkdown() {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the number of files.
func (fs *Files) Len() int {
	return len(fs.files)
}

// SortByPath orders the files by source path.
func (fs *Files) SortByPath() {
	sort.SliceStable(fs.files, func(i, j int) bool {
		return fs.files[i].Path < fs.files[j].Path
	})
}
