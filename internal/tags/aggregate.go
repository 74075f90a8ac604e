package tags

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Group is the documents carrying one tag, in year order.
type Group struct {
	Name    string
	Records []*Record
}

// SortByYear returns the non-nil records ordered by year, records without a
// year last. Records with equal years keep their input order.
func SortByYear(records []*Record) []*Record {
	out := make([]*Record, 0, len(records))
	for _, r := range records {
		if r != nil {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b *Record) int {
		return cmp.Compare(a.sortYear(), b.sortYear())
	})
	return out
}

// Aggregate groups records by tag. Groups are ordered by case-folded name;
// names that fold equal keep first-seen order.
func Aggregate(records []*Record) []Group {
	type keyed struct {
		key   string
		group Group
	}

	var groups []keyed
	index := make(map[string]int)
	fold := cases.Fold()

	for _, r := range SortByYear(records) {
		for _, tag := range r.Tags {
			i, ok := index[tag]
			if !ok {
				i = len(groups)
				index[tag] = i
				groups = append(groups, keyed{key: fold.String(tag), group: Group{Name: tag}})
			}
			groups[i].group.Records = append(groups[i].group.Records, r)
		}
	}

	slices.SortStableFunc(groups, func(a, b keyed) int {
		return strings.Compare(a.key, b.key)
	})

	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = g.group
	}
	return out
}

// TagNames returns the group names in display order.
func TagNames(groups []Group) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}
