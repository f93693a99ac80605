package analysis

import (
	"sort"
	"strings"
)

// Category classifies the origin of a tag. Values are the stable tokens
// persisted alongside generated videos.
type Category string

const (
	CategoryLocation Category = "Location"
	CategoryPeople   Category = "People"
	CategoryActivity Category = "Activity"
	CategoryMood     Category = "Mood"
	CategoryTrending Category = "Trending"
)

// Tag is a canonical descriptive label derived from visual content.
// Equality is by label only: two tags with the same label but different
// categories collapse during deduplication.
type Tag struct {
	Label    string
	Category Category
}

// DedupeSorted collapses tags by label (first occurrence wins the category)
// and returns them sorted lexicographically by label.
func DedupeSorted(tags []Tag) []Tag {
	seen := make(map[string]struct{}, len(tags))
	out := make([]Tag, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag.Label]; ok {
			continue
		}
		seen[tag.Label] = struct{}{}
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label < out[j].Label
	})
	return out
}

// Labels flattens tags to their labels, preserving order.
func Labels(tags []Tag) []string {
	labels := make([]string, 0, len(tags))
	for _, tag := range tags {
		labels = append(labels, tag.Label)
	}
	return labels
}

// ParseCategory converts a string into a known Category.
func ParseCategory(value string) (Category, bool) {
	trimmed := strings.TrimSpace(value)
	for _, category := range []Category{CategoryLocation, CategoryPeople, CategoryActivity, CategoryMood, CategoryTrending} {
		if strings.EqualFold(trimmed, string(category)) {
			return category, true
		}
	}
	return "", false
}
