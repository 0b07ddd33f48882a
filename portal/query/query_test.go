package query_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/brightacademy/portal/query"
	"github.com/trezcool/brightacademy/portal/record"
)

func ids(items []record.Entity) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.ID())
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	items := record.Seed(
		record.Entity{"name": "John Banda", "class": "Standard 5", "parentName": "Peter Banda"},
		record.Entity{"name": "Mary Phiri", "class": "Standard 4", "parentName": "Joyce Phiri"},
		record.Entity{"name": "Grace Mwale", "class": "Standard 5", "parentName": "Mary Mwale"},
	)
	fields := []string{"name", "parentName"}

	tests := []struct {
		name   string
		filter query.Filter
		want   []string
	}{
		{name: "identity", filter: query.Filter{SearchFields: fields}, want: []string{"1", "2", "3"}},
		{name: "blank search", filter: query.Filter{Search: "   ", SearchFields: fields}, want: []string{"1", "2", "3"}},
		{name: "case-insensitive substring", filter: query.Filter{Search: "MARY", SearchFields: fields}, want: []string{"2", "3"}},
		{name: "only searched fields", filter: query.Filter{Search: "standard", SearchFields: fields}, want: []string{}},
		{name: "equality", filter: query.Filter{Equals: map[string]string{"class": "Standard 5"}}, want: []string{"1", "3"}},
		{name: "equality is exact", filter: query.Filter{Equals: map[string]string{"class": "standard 5"}}, want: []string{}},
		{name: "empty value is no constraint", filter: query.Filter{Equals: map[string]string{"class": ""}}, want: []string{"1", "2", "3"}},
		{
			name:   "search and filters compose",
			filter: query.Filter{Search: "mary", SearchFields: fields, Equals: map[string]string{"class": "Standard 5"}},
			want:   []string{"3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(items)
			assert.Equal(t, tt.want, ids(got))

			// every result contains the term in a searched field
			term := strings.ToLower(strings.TrimSpace(tt.filter.Search))
			for _, e := range got {
				found := term == ""
				for _, f := range tt.filter.SearchFields {
					found = found || strings.Contains(strings.ToLower(e.String(f)), term)
				}
				assert.True(t, found, "record %s does not contain %q", e.ID(), term)
			}
		})
	}
}

func TestFilter_MaryScenario(t *testing.T) {
	items := []record.Entity{
		{"id": 1, "name": "John Banda", "class": "Standard 5"},
		{"id": 2, "name": "Mary Phiri", "class": "Standard 4"},
	}
	f := query.Filter{SearchFields: []string{"name"}}

	f.Search = "mary"
	assert.Equal(t, []string{"2"}, ids(f.Apply(items)))
	assert.False(t, f.IsZero())

	f.Search = ""
	assert.Equal(t, []string{"1", "2"}, ids(f.Apply(items)))
	assert.True(t, f.IsZero())
}

func TestPaginate(t *testing.T) {
	items := make([]record.Entity, 0, 12)
	for i := 1; i <= 12; i++ {
		items = append(items, record.Entity{"id": i, "name": fmt.Sprintf("Student %d", i)})
	}

	tests := []struct {
		name      string
		items     []record.Entity
		index     int
		wantIndex int
		wantIDs   []string
		wantPages int
	}{
		{name: "first", items: items, index: 1, wantIndex: 1, wantIDs: []string{"1", "2", "3", "4", "5"}, wantPages: 3},
		{name: "last is short", items: items, index: 3, wantIndex: 3, wantIDs: []string{"11", "12"}, wantPages: 3},
		{name: "past the end is clamped", items: items, index: 9, wantIndex: 3, wantIDs: []string{"11", "12"}, wantPages: 3},
		{name: "below one is clamped", items: items, index: 0, wantIndex: 1, wantIDs: []string{"1", "2", "3", "4", "5"}, wantPages: 3},
		{name: "empty", items: nil, index: 2, wantIndex: 1, wantIDs: []string{}, wantPages: 0},
		{name: "list shrank under the page", items: items[:6], index: 3, wantIndex: 2, wantIDs: []string{"6"}, wantPages: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := query.Paginate(tt.items, tt.index, 5)
			assert.Equal(t, tt.wantIndex, p.Index)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, len(tt.items), p.Total)
			assert.Equal(t, tt.wantIDs, ids(p.Items))
		})
	}

	t.Run("pages are bounded, disjoint and contiguous", func(t *testing.T) {
		var all []string
		first := query.Paginate(items, 1, 5)
		for n := 1; n <= first.TotalPages; n++ {
			p := query.Paginate(items, n, 5)
			require.LessOrEqual(t, len(p.Items), 5)
			assert.Equal(t, len(all)+1, p.First())
			all = append(all, ids(p.Items)...)
			assert.Equal(t, len(all), p.Last())
		}
		assert.Equal(t, ids(items), all)
	})

	t.Run("navigation", func(t *testing.T) {
		p := query.Paginate(items, 2, 5)
		assert.True(t, p.HasPrev())
		assert.True(t, p.HasNext())

		p = query.Paginate(items, 3, 5)
		assert.False(t, p.HasNext())

		p = query.Paginate(nil, 1, 5)
		assert.False(t, p.HasPrev())
		assert.False(t, p.HasNext())
		assert.Zero(t, p.First())
	})
}
