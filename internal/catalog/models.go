package catalog

import (
	"strings"
	"time"
)

// Style identifies the title/voice treatment of a generated video. The string
// values are stable persistence tokens; never reuse or rename them.
type Style string

const (
	StyleTrending      Style = "Trending"
	StyleCinematic     Style = "Cinematic"
	StyleVlog          Style = "Vlog"
	StyleMeme          Style = "Meme"
	StyleInspirational Style = "Inspirational"
)

// Styles returns every known style in presentation order.
func Styles() []Style {
	return []Style{StyleTrending, StyleCinematic, StyleVlog, StyleMeme, StyleInspirational}
}

// ParseStyle converts user or stored input into a known Style,
// case-insensitively.
func ParseStyle(value string) (Style, bool) {
	trimmed := strings.TrimSpace(value)
	for _, style := range Styles() {
		if strings.EqualFold(trimmed, string(style)) {
			return style, true
		}
	}
	return "", false
}

// Platform is the distribution target a video was generated for. Stable
// persistence tokens.
type Platform string

const (
	PlatformTikTok Platform = "TikTok"
	PlatformReels  Platform = "Instagram Reels"
	PlatformShorts Platform = "YouTube Shorts"
	PlatformAny    Platform = "Any"
)

// Platforms returns every known platform in presentation order.
func Platforms() []Platform {
	return []Platform{PlatformTikTok, PlatformReels, PlatformShorts, PlatformAny}
}

// ParsePlatform converts user or stored input into a known Platform,
// case-insensitively.
func ParsePlatform(value string) (Platform, bool) {
	trimmed := strings.TrimSpace(value)
	for _, platform := range Platforms() {
		if strings.EqualFold(trimmed, string(platform)) {
			return platform, true
		}
	}
	return "", false
}

// GeneratedVideo is one catalog record describing a finished export on disk.
type GeneratedVideo struct {
	ID             string
	CreatedAt      time.Time
	Title          string
	SourceMediaIDs []string
	AnalysisTags   []string
	OutputPath     string
	ThumbnailPath  string // empty when no thumbnail was produced
	Duration       time.Duration
	Style          Style
	Platform       Platform
}
