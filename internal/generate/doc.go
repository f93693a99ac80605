// Package generate orchestrates the full video generation pipeline: preflight
// checks, timeline composition, ffmpeg export, title derivation, and catalog
// persistence, publishing one smooth progress stream across all of it.
package generate
