package analysis

import "math/rand/v2"

var trendingTopics = []string{
	"Day in the Life",
	"GRWM",
	"Get Ready With Me",
	"Storytime",
	"POV",
	"Tutorial",
	"Behind the Scenes",
	"Vlog",
	"Motivation",
	"Comedy",
}

// TrendingTags returns a random sample of trend topics tagged as Trending.
// It performs no I/O and never fails; size is clamped to the topic list.
func TrendingTags(size int) []Tag {
	if size <= 0 {
		return nil
	}
	if size > len(trendingTopics) {
		size = len(trendingTopics)
	}
	perm := rand.Perm(len(trendingTopics))
	tags := make([]Tag, 0, size)
	for _, idx := range perm[:size] {
		tags = append(tags, Tag{Label: trendingTopics[idx], Category: CategoryTrending})
	}
	return tags
}
