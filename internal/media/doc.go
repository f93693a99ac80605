// Package media defines the asset source contract consumed by the analysis
// and timeline packages, plus a filesystem-backed implementation that
// enumerates a directory tree of images and video clips.
package media
