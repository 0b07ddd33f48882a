// Package stats computes the simple aggregates shown on dashboards:
// totals, group-by counts and numeric ranges.
package stats

import (
	"fmt"
	"sort"
)

// Bucket is the number of records sharing the same Key.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Range is the min/max of a numeric field. The zero Range is "0–0".
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r Range) String() string {
	return fmt.Sprintf("%d–%d", r.Min, r.Max)
}

// GroupBy counts items per key, sorted by descending count then ascending key.
// Items with an empty key are counted under "Unknown".
func GroupBy[T any](items []T, key func(T) string) []Bucket {
	counts := make(map[string]int)
	for _, item := range items {
		k := key(item)
		if k == "" {
			k = "Unknown"
		}
		counts[k]++
	}

	buckets := make([]Bucket, 0, len(counts))
	for k, c := range counts {
		buckets = append(buckets, Bucket{Key: k, Count: c})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

// Count returns the number of items matching pred.
func Count[T any](items []T, pred func(T) bool) int {
	var n int
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// RangeOf returns the min/max of value over items. Items for which value reports false are skipped.
// An empty input (or one without any value) yields the zero Range.
func RangeOf[T any](items []T, value func(T) (int, bool)) Range {
	var (
		r     Range
		found bool
	)
	for _, item := range items {
		v, ok := value(item)
		if !ok {
			continue
		}
		if !found {
			r = Range{Min: v, Max: v}
			found = true
			continue
		}
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	return r
}

// Summary is the dashboard overview of a collection.
type Summary struct {
	Total  int                 `json:"total"`
	Groups map[string][]Bucket `json:"groups"`
	Ranges map[string]Range    `json:"ranges"`
}

// Summarizer describes which aggregates to compute over a collection.
type Summarizer[T any] struct {
	Groups map[string]func(T) string
	Ranges map[string]func(T) (int, bool)
}

// Summarize computes the Summary of items. It never fails, even on an empty collection.
func (s Summarizer[T]) Summarize(items []T) Summary {
	sum := Summary{
		Total:  len(items),
		Groups: make(map[string][]Bucket, len(s.Groups)),
		Ranges: make(map[string]Range, len(s.Ranges)),
	}
	for name, key := range s.Groups {
		sum.Groups[name] = GroupBy(items, key)
	}
	for name, value := range s.Ranges {
		sum.Ranges[name] = RangeOf(items, value)
	}
	return sum
}
