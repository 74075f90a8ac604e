// Package tags builds a page that lists documents grouped by the tags in
// their front-matter.
//
// The flow is Collect (front-matter to Record), Aggregate (records to sorted
// Groups), Render (groups to page text through a Renderer) and WritePage.
// Plugin wires these steps to the build pipeline's hooks.
package tags

import "math"

// Known front-matter keys. Everything else lands in Record.Extra.
const (
	KeyTitle    = "title"
	KeyTags     = "tags"
	KeyYear     = "year"
	KeyFilename = "filename"
)

// noYear orders records without a year after every dated record.
const noYear = math.MaxInt

// Record is the metadata of one document.
type Record struct {
	Title    string
	Tags     []string
	Year     *int
	Filename string // Site-relative URL of the document
	Extra    map[string]any
}

// Get returns a field by its front-matter key, for use in templates.
func (r *Record) Get(key string) any {
	switch key {
	case KeyTitle:
		return r.Title
	case KeyTags:
		return r.Tags
	case KeyYear:
		if r.Year == nil {
			return nil
		}
		return *r.Year
	case KeyFilename:
		return r.Filename
	default:
		return r.Extra[key]
	}
}

func (r *Record) sortYear() int {
	if r.Year == nil {
		return noYear
	}
	return *r.Year
}
