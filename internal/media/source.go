package media

import (
	"context"
	"image"
)

// Source enumerates available media and loads decoded content on demand.
// Implementations tolerate failure by returning errors that callers map to
// "skip this item"; no Source error aborts a whole pipeline run.
type Source interface {
	// ListAvailable returns up to limit items, newest first. A non-positive
	// limit applies the default listing cap.
	ListAvailable(ctx context.Context, limit int) ([]Item, error)
	// LoadThumbnail returns a decoded preview scaled to fit maxDim on the
	// longer edge.
	LoadThumbnail(ctx context.Context, item Item, maxDim int) (image.Image, error)
	// LoadFullImage returns a full-resolution decode. For video items this is
	// a representative still frame.
	LoadFullImage(ctx context.Context, item Item) (image.Image, error)
	// LoadVideoHandle returns the decodable handle for a video item.
	LoadVideoHandle(ctx context.Context, item Item) (VideoHandle, error)
}

// FrameExtractor produces a representative still frame from a video file.
// The render package provides the ffmpeg-backed implementation.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, path string) (image.Image, error)
}
