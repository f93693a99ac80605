// Package title derives a shareable caption for a generated video from its
// style and the analysis tags of its source media.
package title

import (
	"fmt"
	"strings"

	"clipforge/internal/catalog"
)

// maxTitleTags caps how many tag labels a title may reference.
const maxTitleTags = 2

// ForStyle renders a title for the given style from up to the first two tag
// labels. Every style degrades to a fixed phrase when no tags are available.
func ForStyle(style catalog.Style, labels []string) string {
	if len(labels) > maxTitleTags {
		labels = labels[:maxTitleTags]
	}

	switch style {
	case catalog.StyleTrending:
		return "#" + strings.Join(labels, " #")
	case catalog.StyleCinematic:
		if len(labels) == 0 {
			return "Cinematic Moment"
		}
		return fmt.Sprintf("The %s Story", labels[0])
	case catalog.StyleVlog:
		if len(labels) == 0 {
			return "My Day"
		}
		return fmt.Sprintf("Day with %s", labels[0])
	case catalog.StyleMeme:
		subject := "you"
		if len(labels) > 0 {
			subject = labels[0]
		}
		return fmt.Sprintf("When %s hits different \U0001F602", subject)
	case catalog.StyleInspirational:
		if len(labels) == 0 {
			return "Rise & Grind"
		}
		return fmt.Sprintf("The %s Journey", labels[0])
	default:
		return strings.Join(labels, " ")
	}
}
