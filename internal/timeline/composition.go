package timeline

import (
	"time"

	"clipforge/internal/media"
)

// Segment is one contiguous span of the output timeline sourced from one
// input media item. Segments are appended strictly in input order; a
// segment's StartOffset equals the sum of the lengths of all segments before
// it.
type Segment struct {
	SourceItemID string
	Kind         media.Kind
	SourcePath   string
	StartOffset  time.Duration
	Length       time.Duration
	HasAudio     bool
	// Transform is set for segments synthesized from still images.
	Transform Transform
}

// End returns the timeline offset at which the segment finishes.
func (s Segment) End() time.Duration {
	return s.StartOffset + s.Length
}

// Composition is the in-memory timeline of video/audio segments before
// encoding. Owned exclusively by one in-flight generation; never shared
// across concurrent requests.
type Composition struct {
	Segments []Segment

	// Output frame parameters the renderer must honor.
	FrameWidth  int
	FrameHeight int
	FrameRate   int

	duration time.Duration
}

// NewComposition assembles a composition directly from segments, recomputing
// every start offset from the running sum. Intended for callers that already
// know their segment list; Builder.Compose is the usual path.
func NewComposition(frameWidth, frameHeight, frameRate int, segments ...Segment) *Composition {
	composition := &Composition{
		FrameWidth:  frameWidth,
		FrameHeight: frameHeight,
		FrameRate:   frameRate,
	}
	for _, segment := range segments {
		composition.append(segment)
	}
	return composition
}

// Duration returns the total output duration: the running sum of all segment
// lengths, which is the single source of truth for timing.
func (c *Composition) Duration() time.Duration {
	return c.duration
}

// HasAudio reports whether any segment contributes audio.
func (c *Composition) HasAudio() bool {
	for _, segment := range c.Segments {
		if segment.HasAudio {
			return true
		}
	}
	return false
}

// SourceItemIDs returns the contributing item IDs in timeline order.
func (c *Composition) SourceItemIDs() []string {
	ids := make([]string, 0, len(c.Segments))
	for _, segment := range c.Segments {
		ids = append(ids, segment.SourceItemID)
	}
	return ids
}

// append adds a segment at the current cumulative offset and advances it.
func (c *Composition) append(segment Segment) {
	segment.StartOffset = c.duration
	c.Segments = append(c.Segments, segment)
	c.duration += segment.Length
}
