package media

import (
	"strings"
	"time"
)

// Kind distinguishes still images from video clips.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// ParseKind converts a string into a known Kind.
func ParseKind(value string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindImage:
		return KindImage, true
	case KindVideo:
		return KindVideo, true
	default:
		return "", false
	}
}

// Item references a single selectable media asset. The pipeline holds only
// the reference; content is fetched from the Source on demand. Immutable once
// read.
type Item struct {
	ID        string
	Kind      Kind
	Path      string
	CreatedAt time.Time // zero when the source reports no creation time
}

// VideoHandle describes a decodable video asset.
type VideoHandle struct {
	Path     string
	Duration time.Duration
	HasAudio bool
	Width    int
	Height   int
}

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".m4v": {}, ".mkv": {}, ".webm": {}, ".avi": {},
}

// KindForExtension maps a file extension (with leading dot) to a media kind.
func KindForExtension(ext string) (Kind, bool) {
	ext = strings.ToLower(ext)
	if _, ok := imageExtensions[ext]; ok {
		return KindImage, true
	}
	if _, ok := videoExtensions[ext]; ok {
		return KindVideo, true
	}
	return "", false
}
