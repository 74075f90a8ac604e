package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(title string, year *int, tags ...string) *Record {
	return &Record{Title: title, Tags: tags, Year: year, Filename: title + "/"}
}

func titles(records []*Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}

func TestSortByYear(t *testing.T) {
	records := []*Record{
		rec("none-1", nil),
		rec("2021", intPtr(2021)),
		nil,
		rec("2020-a", intPtr(2020)),
		rec("none-2", nil),
		rec("2020-b", intPtr(2020)),
	}

	sorted := SortByYear(records)
	assert.Equal(t, []string{"2020-a", "2020-b", "2021", "none-1", "none-2"}, titles(sorted))
	assert.Len(t, records, 6, "input is not modified")
}

func TestAggregateMultipleTags(t *testing.T) {
	doc := rec("doc", nil, "a", "b")
	groups := Aggregate([]*Record{doc})

	require.Len(t, groups, 2)
	assert.Equal(t, "a", groups[0].Name)
	assert.Equal(t, "b", groups[1].Name)
	assert.Same(t, doc, groups[0].Records[0])
	assert.Same(t, doc, groups[1].Records[0])
}

func TestAggregateCaseInsensitiveOrder(t *testing.T) {
	groups := Aggregate([]*Record{rec("doc", nil, "zebra", "Apple", "mango")})
	assert.Equal(t, []string{"Apple", "mango", "zebra"}, TagNames(groups))
}

func TestAggregateFoldedTiesKeepFirstSeenOrder(t *testing.T) {
	groups := Aggregate([]*Record{
		rec("one", nil, "go"),
		rec("two", nil, "Go"),
	})
	assert.Equal(t, []string{"go", "Go"}, TagNames(groups))
}

func TestAggregateYearOrderWithinGroup(t *testing.T) {
	groups := Aggregate([]*Record{
		rec("undated", nil, "t"),
		rec("2021", intPtr(2021), "t"),
		rec("2020", intPtr(2020), "t"),
	})
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"2020", "2021", "undated"}, titles(groups[0].Records))
}

func TestAggregateSkipsRecordsWithoutTags(t *testing.T) {
	groups := Aggregate([]*Record{rec("untagged", intPtr(2000)), nil})
	assert.Empty(t, groups)
}

func TestAggregateEndToEnd(t *testing.T) {
	documents := []Document{
		{Path: "doc1.md", URL: "doc1/", Content: []byte("---\ntitle: doc1\ntags: [x]\nyear: 2019\n---\n")},
		{Path: "doc2.md", URL: "doc2/", Content: []byte("---\ntitle: doc2\ntags: [x, y]\nyear: 2018\n---\n")},
		{Path: "doc3.md", URL: "doc3/", Content: []byte("---\ntitle: doc3\ntags: [y]\n---\n")},
	}

	records, err := Collect(documents)
	require.NoError(t, err)
	groups := Aggregate(records)

	require.Len(t, groups, 2)
	assert.Equal(t, "x", groups[0].Name)
	assert.Equal(t, []string{"doc2", "doc1"}, titles(groups[0].Records))
	assert.Equal(t, "y", groups[1].Name)
	assert.Equal(t, []string{"doc2", "doc3"}, titles(groups[1].Records))
}
