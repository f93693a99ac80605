package analysis

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// labelMapping pairs a classifier-output substring with its canonical tag.
// The slice is ordered; matching is first-defined-wins so overlapping
// keywords resolve deterministically across runs.
type labelMapping struct {
	keyword string
	tag     string
}

var labelMappings = []labelMapping{
	{"dog", "Pet"},
	{"cat", "Pet"},
	{"car", "Vehicle"},
	{"bicycle", "Sports"},
	{"person", "People"},
	{"food", "Food"},
	{"drink", "Food"},
	{"coffee", "Coffee"},
	{"phone", "Tech"},
	{"computer", "Tech"},
	{"beach", "Beach"},
	{"ocean", "Beach"},
	{"mountain", "Nature"},
	{"tree", "Nature"},
	{"flower", "Nature"},
	{"sports", "Sports"},
	{"fitness", "Fitness"},
	{"gym", "Fitness"},
	{"music", "Music"},
	{"guitar", "Music"},
	{"travel", "Travel"},
	{"vacation", "Travel"},
}

// CanonicalTag maps a raw classifier identifier to its canonical tag label.
// Matching is case-insensitive substring containment in definition order.
func CanonicalTag(identifier string) (string, bool) {
	lower := strings.ToLower(identifier)
	for _, mapping := range labelMappings {
		if strings.Contains(lower, mapping.keyword) {
			return mapping.tag, true
		}
	}
	return "", false
}

var sceneKeywords = []string{
	"outdoor", "indoor", "beach", "mountain", "city",
	"street", "restaurant", "gym", "park", "home",
}

var keywordTitle = cases.Title(language.Und)

// SceneTags extracts location tags from a raw classifier identifier by
// keyword matching. Matched keywords surface with canonical casing.
func SceneTags(identifier string) []Tag {
	lower := strings.ToLower(identifier)
	var tags []Tag
	for _, keyword := range sceneKeywords {
		if strings.Contains(lower, keyword) {
			tags = append(tags, Tag{Label: keywordTitle.String(keyword), Category: CategoryLocation})
		}
	}
	return tags
}
