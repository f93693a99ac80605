// Package timeline assembles an ordered media selection into a single
// exportable composition: video clips keep their intrinsic duration and
// audio, still images are promoted to fixed-length held clips fitted to the
// output frame, and the running duration sum is the single source of truth
// for output timing.
package timeline
