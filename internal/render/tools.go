package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os/exec"
	"strings"

	"clipforge/internal/media/ffprobe"
	"clipforge/internal/services"
)

var commandContext = exec.CommandContext

// Tools resolves the external encode and inspection binaries once at startup
// so later pipeline failures are attributable to the run, not the install.
type Tools struct {
	ffmpegPath  string
	ffprobePath string
}

// NewTools locates ffmpeg and ffprobe on PATH. Absolute paths are accepted
// as-is.
func NewTools(ffmpegBinary, ffprobeBinary string) (*Tools, error) {
	ffmpegPath, err := exec.LookPath(ffmpegBinary)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "render", "tools", "ffmpeg not found in PATH", err)
	}
	ffprobePath, err := exec.LookPath(ffprobeBinary)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "render", "tools", "ffprobe not found in PATH", err)
	}
	return &Tools{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}, nil
}

// FFmpegPath returns the resolved encoder binary.
func (t *Tools) FFmpegPath() string {
	return t.ffmpegPath
}

// FFprobePath returns the resolved inspection binary.
func (t *Tools) FFprobePath() string {
	return t.ffprobePath
}

// Probe inspects a media file's container and streams.
func (t *Tools) Probe(ctx context.Context, path string) (ffprobe.Result, error) {
	return ffprobe.Inspect(ctx, t.ffprobePath, path)
}

// ExtractFrame decodes the first frame of a video file into an in-memory
// image. Used to analyze video content without decoding the full clip.
func (t *Tools) ExtractFrame(ctx context.Context, path string) (image.Image, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("extract frame: empty path")
	}

	args := []string{
		"-v", "error", "-hide_banner",
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "png",
		"pipe:1",
	}
	cmd := commandContext(ctx, t.ffmpegPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "frame extraction failed"
		}
		return nil, services.Wrap(services.ErrExternalTool, "render", "extract_frame", detail, err)
	}

	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "render", "extract_frame", "decode extracted frame", err)
	}
	return img, nil
}
