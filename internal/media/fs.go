package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"clipforge/internal/logging"
	"clipforge/internal/media/ffprobe"
)

// DefaultListLimit caps enumeration when the caller does not supply a limit.
const DefaultListLimit = 100

// FSSource enumerates media from a directory tree. Item IDs are paths
// relative to the root, which keeps them stable across process restarts.
type FSSource struct {
	root       string
	ffprobeBin string
	frames     FrameExtractor
	logger     *slog.Logger
}

// FSOption configures optional FSSource behavior.
type FSOption func(*FSSource)

// WithFrameExtractor supplies the extractor used to derive representative
// frames from video items. Without one, LoadFullImage fails for videos.
func WithFrameExtractor(frames FrameExtractor) FSOption {
	return func(s *FSSource) {
		s.frames = frames
	}
}

// WithFFprobeBinary overrides the ffprobe executable name.
func WithFFprobeBinary(binary string) FSOption {
	return func(s *FSSource) {
		if binary != "" {
			s.ffprobeBin = binary
		}
	}
}

// NewFSSource constructs a filesystem-backed media source rooted at dir.
func NewFSSource(dir string, logger *slog.Logger, opts ...FSOption) *FSSource {
	source := &FSSource{
		root:       dir,
		ffprobeBin: "ffprobe",
		logger:     logging.NewComponentLogger(logger, "media"),
	}
	for _, opt := range opts {
		opt(source)
	}
	return source
}

// ListAvailable walks the root directory and returns recognized media items,
// newest first by modification time.
func (s *FSSource) ListAvailable(ctx context.Context, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var items []Item
	err := filepath.WalkDir(s.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtrees degrade to an incomplete listing.
			s.logger.Debug("skipping unreadable path", logging.String("path", path), logging.Error(walkErr))
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		kind, ok := KindForExtension(filepath.Ext(entry.Name()))
		if !ok {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			rel = path
		}
		items = append(items, Item{
			ID:        filepath.ToSlash(rel),
			Kind:      kind,
			Path:      path,
			CreatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list media: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// LoadThumbnail decodes the item and scales it to fit maxDim on the longer edge.
func (s *FSSource) LoadThumbnail(ctx context.Context, item Item, maxDim int) (image.Image, error) {
	full, err := s.LoadFullImage(ctx, item)
	if err != nil {
		return nil, err
	}
	if maxDim <= 0 {
		return full, nil
	}
	bounds := full.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	longest := width
	if height > longest {
		longest = height
	}
	if longest <= maxDim {
		return full, nil
	}
	scale := float64(maxDim) / float64(longest)
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(width)*scale), int(float64(height)*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), full, bounds, draw.Over, nil)
	return dst, nil
}

// LoadFullImage returns the full-resolution decode of an image item, or the
// first frame of a video item when a frame extractor is configured.
func (s *FSSource) LoadFullImage(ctx context.Context, item Item) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if item.Kind == KindVideo {
		if s.frames == nil {
			return nil, errors.New("no frame extractor configured for video items")
		}
		return s.frames.ExtractFrame(ctx, item.Path)
	}

	file, err := os.Open(item.Path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", item.ID, err)
	}
	return img, nil
}

// LoadVideoHandle probes a video item and returns its decodable handle.
func (s *FSSource) LoadVideoHandle(ctx context.Context, item Item) (VideoHandle, error) {
	if item.Kind != KindVideo {
		return VideoHandle{}, fmt.Errorf("item %s is not a video", item.ID)
	}

	result, err := ffprobe.Inspect(ctx, s.ffprobeBin, item.Path)
	if err != nil {
		return VideoHandle{}, err
	}

	seconds := result.DurationSeconds()
	if !(seconds > 0) {
		return VideoHandle{}, fmt.Errorf("video %s reports no usable duration", item.ID)
	}

	handle := VideoHandle{
		Path:     item.Path,
		Duration: time.Duration(seconds * float64(time.Second)),
		HasAudio: result.HasAudio(),
	}
	if stream, ok := result.FirstVideoStream(); ok {
		handle.Width = stream.Width
		handle.Height = stream.Height
	}
	return handle, nil
}

var _ Source = (*FSSource)(nil)

// DescribeItem renders a compact identifier for logs.
func DescribeItem(item Item) string {
	return strings.Join([]string{string(item.Kind), item.ID}, ":")
}
