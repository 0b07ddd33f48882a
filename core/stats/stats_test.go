package stats

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

type kid struct {
	class  string
	gender string
	age    string
}

func TestGroupBy(t *testing.T) {
	kids := []kid{
		{class: "Standard 5", gender: "Male"},
		{class: "Standard 4", gender: "Female"},
		{class: "Standard 5", gender: "Female"},
		{class: "ECD", gender: "Female"},
		{class: "", gender: "Male"},
	}

	tests := []struct {
		name string
		key  func(kid) string
		want []Bucket
	}{
		{
			name: "by class",
			key:  func(k kid) string { return k.class },
			want: []Bucket{{"Standard 5", 2}, {"ECD", 1}, {"Standard 4", 1}, {"Unknown", 1}},
		},
		{
			name: "by gender",
			key:  func(k kid) string { return k.gender },
			want: []Bucket{{"Female", 3}, {"Male", 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GroupBy(kids, tt.key))
		})
	}
}

func TestRangeOf(t *testing.T) {
	age := func(k kid) (int, bool) {
		n, err := strconv.Atoi(k.age)
		return n, err == nil
	}

	tests := []struct {
		name    string
		kids    []kid
		want    Range
		wantStr string
	}{
		{name: "empty", kids: nil, want: Range{}, wantStr: "0–0"},
		{name: "no values", kids: []kid{{age: "?"}}, want: Range{}, wantStr: "0–0"},
		{name: "single", kids: []kid{{age: "7"}}, want: Range{7, 7}, wantStr: "7–7"},
		{name: "many", kids: []kid{{age: "9"}, {age: "4"}, {age: "x"}, {age: "12"}}, want: Range{4, 12}, wantStr: "4–12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangeOf(tt.kids, age)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantStr, got.String())
		})
	}
}

func TestSummarizer_Summarize(t *testing.T) {
	s := Summarizer[kid]{
		Groups: map[string]func(kid) string{"class": func(k kid) string { return k.class }},
		Ranges: map[string]func(kid) (int, bool){"age": func(k kid) (int, bool) {
			n, err := strconv.Atoi(k.age)
			return n, err == nil
		}},
	}

	empty := s.Summarize(nil)
	assert.Equal(t, 0, empty.Total)
	assert.Empty(t, empty.Groups["class"])
	assert.Equal(t, "0–0", empty.Ranges["age"].String())

	sum := s.Summarize([]kid{{class: "PP1", age: "4"}, {class: "PP1", age: "5"}})
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, []Bucket{{"PP1", 2}}, sum.Groups["class"])
	assert.Equal(t, Range{4, 5}, sum.Ranges["age"])
}

func TestCount(t *testing.T) {
	kids := []kid{{gender: "Male"}, {gender: "Female"}, {gender: "Male"}}
	assert.Equal(t, 2, Count(kids, func(k kid) bool { return k.gender == "Male" }))
	assert.Equal(t, 0, Count([]kid{}, func(k kid) bool { return true }))
}
