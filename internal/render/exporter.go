package render

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/media"
	"clipforge/internal/services"
	"clipforge/internal/timeline"
)

// Status classifies how an export attempt finished. Only StatusCompleted
// counts as success; every other terminal state is a failure for the caller.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Exporter encodes a composition into a playable container file.
type Exporter interface {
	Export(ctx context.Context, composition *timeline.Composition, destPath string, progress func(float64)) (Status, error)
}

// FFmpegExporter realizes a composition with a single ffmpeg invocation:
// every segment becomes one input, still images are looped for their clip
// length, and a concat filtergraph stitches the normalized streams together.
type FFmpegExporter struct {
	tools  *Tools
	logger *slog.Logger
	crf    int
	preset string
}

// NewFFmpegExporter constructs an exporter from render configuration.
func NewFFmpegExporter(cfg *config.Config, tools *Tools, logger *slog.Logger) *FFmpegExporter {
	exporter := &FFmpegExporter{
		tools:  tools,
		logger: logging.NewComponentLogger(logger, "render"),
		crf:    18,
		preset: "slow",
	}
	if cfg != nil {
		exporter.crf = cfg.Render.CRF
		exporter.preset = cfg.Render.Preset
	}
	return exporter
}

// Export encodes the composition to destPath, replacing any file already
// there. On cancellation or failure the partial output is removed so the
// destination never holds an unfinished file. Progress covers this encode
// alone, from 0 to 1.
func (e *FFmpegExporter) Export(ctx context.Context, composition *timeline.Composition, destPath string, progress func(float64)) (Status, error) {
	if progress == nil {
		progress = func(float64) {}
	}
	if composition == nil || len(composition.Segments) == 0 {
		return StatusFailed, services.Wrap(services.ErrValidation, "render", "export", "composition has no segments", nil)
	}
	if strings.TrimSpace(destPath) == "" {
		return StatusFailed, services.Wrap(services.ErrValidation, "render", "export", "destination path required", nil)
	}

	if err := os.Remove(destPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return StatusFailed, services.Wrap(services.ErrExternalTool, "render", "export", "replace existing output", err)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return StatusFailed, services.Wrap(services.ErrExternalTool, "render", "export", "create output directory", err)
	}

	args := buildExportArgs(composition, e.crf, e.preset, destPath)
	e.logger.Debug("starting export",
		logging.String("dest", destPath),
		logging.Int("segments", len(composition.Segments)),
		logging.Duration("duration", composition.Duration()),
	)

	cmd := commandContext(ctx, e.tools.FFmpegPath(), args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return StatusFailed, services.Wrap(services.ErrExternalTool, "render", "export", "stdout pipe", err)
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return StatusFailed, services.Wrap(services.ErrExternalTool, "render", "export", "start ffmpeg", err)
	}

	total := composition.Duration()
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if fraction, ok := parseProgressLine(scanner.Text(), total); ok {
			progress(fraction)
		}
	}

	if err := cmd.Wait(); err != nil {
		e.discardPartial(destPath)
		if ctx.Err() != nil {
			e.logger.Info("export cancelled", logging.String("dest", destPath))
			return StatusCancelled, ctx.Err()
		}
		detail := lastStderrLine(stderr.String())
		if detail == "" {
			detail = "export failed"
		}
		return StatusFailed, services.Wrap(services.ErrExternalTool, "render", "export", detail, err)
	}

	progress(1.0)
	e.logger.Info("export finished",
		logging.String("dest", destPath),
		logging.Duration("duration", total),
	)
	return StatusCompleted, nil
}

func (e *FFmpegExporter) discardPartial(destPath string) {
	if err := os.Remove(destPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		e.logger.Warn("could not remove partial output",
			logging.String("dest", destPath),
			logging.Error(err),
		)
	}
}

// buildExportArgs constructs the full ffmpeg argument list. Each segment
// contributes one input; the filtergraph normalizes every input to the output
// frame geometry and sample rate, then concatenates.
func buildExportArgs(composition *timeline.Composition, crf int, preset string, destPath string) []string {
	args := []string{"-y", "-hide_banner", "-nostdin", "-loglevel", "error", "-progress", "pipe:1"}

	for _, segment := range composition.Segments {
		if segment.Kind == media.KindImage {
			args = append(args, "-loop", "1", "-t", formatSeconds(segment.Length))
		}
		args = append(args, "-i", segment.SourcePath)
	}

	args = append(args, "-filter_complex", buildFilterGraph(composition))
	args = append(args,
		"-map", "[vout]",
		"-map", "[aout]",
		"-c:v", "libx264",
		"-crf", strconv.Itoa(crf),
		"-preset", preset,
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-movflags", "+faststart",
		"-f", "mp4",
		destPath,
	)
	return args
}

// buildFilterGraph normalizes each input to the output geometry (scale to fit,
// pad to center) and frame rate, gives silent segments a generated audio bed,
// and concatenates everything into [vout]/[aout].
func buildFilterGraph(composition *timeline.Composition) string {
	var graph strings.Builder
	width, height, rate := composition.FrameWidth, composition.FrameHeight, composition.FrameRate

	for index, segment := range composition.Segments {
		fmt.Fprintf(&graph,
			"[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=%d[v%d];",
			index, width, height, width, height, rate, index)
		if segment.Kind == media.KindVideo && segment.HasAudio {
			fmt.Fprintf(&graph, "[%d:a]aresample=48000[a%d];", index, index)
		} else {
			fmt.Fprintf(&graph,
				"anullsrc=channel_layout=stereo:sample_rate=48000,atrim=duration=%s[a%d];",
				formatSeconds(segment.Length), index)
		}
	}

	for index := range composition.Segments {
		fmt.Fprintf(&graph, "[v%d][a%d]", index, index)
	}
	fmt.Fprintf(&graph, "concat=n=%d:v=1:a=1[vout][aout]", len(composition.Segments))
	return graph.String()
}

// parseProgressLine reads one key=value line from ffmpeg -progress output and
// converts the elapsed output time into a fraction of the total duration.
// Fractions are capped just under 1; only a clean exit publishes 1.
func parseProgressLine(line string, total time.Duration) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	key, value, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found || key != "out_time_us" {
		return 0, false
	}
	micros, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || micros < 0 {
		return 0, false
	}
	fraction := float64(micros) / float64(total.Microseconds())
	if fraction > 0.999 {
		fraction = 0.999
	}
	return fraction, true
}

func lastStderrLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

var _ Exporter = (*FFmpegExporter)(nil)
