// Package render drives the external ffmpeg/ffprobe binaries: locating them,
// extracting analysis frames from video files, and encoding a composed
// timeline into a shareable mp4.
package render
