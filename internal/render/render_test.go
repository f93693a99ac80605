package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/media"
	"clipforge/internal/services"
	"clipforge/internal/timeline"
)

func stubCommand(t *testing.T, mode string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "RENDER_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func stubbedTools(t *testing.T) *Tools {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"ffmpeg", "ffprobe"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	t.Setenv("PATH", dir)
	tools, err := NewTools("ffmpeg", "ffprobe")
	if err != nil {
		t.Fatalf("NewTools: %v", err)
	}
	return tools
}

func testComposition() *timeline.Composition {
	return timeline.NewComposition(1080, 1920, 30,
		timeline.Segment{
			SourceItemID: "still-a",
			Kind:         media.KindImage,
			SourcePath:   "/media/still-a.jpg",
			Length:       3 * time.Second,
		},
		timeline.Segment{
			SourceItemID: "clip-b",
			Kind:         media.KindVideo,
			SourcePath:   "/media/clip-b.mp4",
			Length:       5 * time.Second,
			HasAudio:     true,
		},
	)
}

func newTestExporter(t *testing.T) *FFmpegExporter {
	t.Helper()
	cfg := config.Default()
	return NewFFmpegExporter(&cfg, stubbedTools(t), logging.NewNop())
}

func TestNewToolsMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	_, err := NewTools("ffmpeg", "ffprobe")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestBuildExportArgs(t *testing.T) {
	args := buildExportArgs(testComposition(), 18, "slow", "/out/video.mp4")
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, "-loop 1 -t 3.000 -i /media/still-a.jpg") {
		t.Fatalf("image input not looped for its clip length: %s", joined)
	}
	if !strings.Contains(joined, "-i /media/clip-b.mp4") {
		t.Fatalf("video input missing: %s", joined)
	}
	if strings.Contains(joined, "-t 5.000") {
		t.Fatalf("video input must keep its intrinsic duration: %s", joined)
	}
	for _, want := range []string{"-crf 18", "-preset slow", "-movflags +faststart", "-progress pipe:1", "-f mp4 /out/video.mp4"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in args: %s", want, joined)
		}
	}
}

func TestBuildFilterGraph(t *testing.T) {
	graph := buildFilterGraph(testComposition())

	if !strings.Contains(graph, "[0:v]scale=1080:1920:force_original_aspect_ratio=decrease,pad=1080:1920:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=30[v0]") {
		t.Fatalf("image video chain missing center-fit normalization: %s", graph)
	}
	if !strings.Contains(graph, "anullsrc=channel_layout=stereo:sample_rate=48000,atrim=duration=3.000[a0]") {
		t.Fatalf("silent segment must get a generated audio bed: %s", graph)
	}
	if !strings.Contains(graph, "[1:a]aresample=48000[a1]") {
		t.Fatalf("audio-bearing video must keep its own track: %s", graph)
	}
	if !strings.Contains(graph, "[v0][a0][v1][a1]concat=n=2:v=1:a=1[vout][aout]") {
		t.Fatalf("concat stage malformed: %s", graph)
	}
}

func TestParseProgressLine(t *testing.T) {
	total := 8 * time.Second
	tests := []struct {
		line     string
		fraction float64
		ok       bool
	}{
		{"out_time_us=4000000", 0.5, true},
		{"out_time_us=8000000", 0.999, true},
		{"out_time_us=9000000", 0.999, true},
		{"frame=42", 0, false},
		{"progress=end", 0, false},
		{"out_time_us=bogus", 0, false},
	}
	for _, tt := range tests {
		fraction, ok := parseProgressLine(tt.line, total)
		if ok != tt.ok || fraction != tt.fraction {
			t.Fatalf("parseProgressLine(%q) = %v,%v want %v,%v", tt.line, fraction, ok, tt.fraction, tt.ok)
		}
	}
	if _, ok := parseProgressLine("out_time_us=100", 0); ok {
		t.Fatal("zero-duration composition must not report progress")
	}
}

func TestExportCompletedPublishesTerminalProgress(t *testing.T) {
	exporter := newTestExporter(t)
	stubCommand(t, "export-ok")

	dest := filepath.Join(t.TempDir(), "out.mp4")
	var fractions []float64
	status, err := exporter.Export(context.Background(), testComposition(), dest, func(fraction float64) {
		fractions = append(fractions, fraction)
	})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if status != StatusCompleted {
		t.Fatalf("expected completed status, got %v", status)
	}
	if len(fractions) < 2 {
		t.Fatalf("expected streamed progress, got %v", fractions)
	}
	if fractions[len(fractions)-1] != 1.0 {
		t.Fatalf("success must end at exactly 1.0, got %v", fractions)
	}
	for i := 1; i < len(fractions); i++ {
		if fractions[i] < fractions[i-1] {
			t.Fatalf("progress regressed: %v", fractions)
		}
	}
}

func TestExportFailureRemovesPartialOutput(t *testing.T) {
	exporter := newTestExporter(t)
	stubCommand(t, "export-fail")

	dest := filepath.Join(t.TempDir(), "out.mp4")
	if err := os.WriteFile(dest, []byte("partial"), 0o644); err != nil {
		t.Fatalf("seed partial file: %v", err)
	}
	status, err := exporter.Export(context.Background(), testComposition(), dest, nil)
	if status != StatusFailed {
		t.Fatalf("expected failed status, got %v", status)
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "encoder blew up") {
		t.Fatalf("expected stderr detail in error, got %v", err)
	}
	if _, statErr := os.Stat(dest); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("partial output must be removed after failure")
	}
}

func TestExportCancellation(t *testing.T) {
	exporter := newTestExporter(t)
	stubCommand(t, "export-hang")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	status, err := exporter.Export(ctx, testComposition(), filepath.Join(t.TempDir(), "out.mp4"), nil)
	if status != StatusCancelled {
		t.Fatalf("expected cancelled status, got %v (err=%v)", status, err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExportRejectsEmptyComposition(t *testing.T) {
	exporter := newTestExporter(t)
	status, err := exporter.Export(context.Background(), timeline.NewComposition(1080, 1920, 30), "/tmp/out.mp4", nil)
	if status != StatusFailed || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation failure, got %v/%v", status, err)
	}
}

func TestExtractFrameDecodesOutput(t *testing.T) {
	tools := stubbedTools(t)
	stubCommand(t, "frame")

	img, err := tools.ExtractFrame(context.Background(), "/media/clip.mp4")
	if err != nil {
		t.Fatalf("ExtractFrame returned error: %v", err)
	}
	if bounds := img.Bounds(); bounds.Dx() != 2 || bounds.Dy() != 2 {
		t.Fatalf("unexpected frame bounds %v", bounds)
	}
}

func TestExtractFrameSurfacesStderr(t *testing.T) {
	tools := stubbedTools(t)
	stubCommand(t, "export-fail")

	_, err := tools.ExtractFrame(context.Background(), "/media/clip.mp4")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("RENDER_HELPER_MODE") {
	case "export-ok":
		fmt.Println("out_time_us=2000000")
		fmt.Println("out_time_us=6000000")
		fmt.Println("progress=end")
		os.Exit(0)
	case "export-fail":
		fmt.Fprintln(os.Stderr, "encoder blew up")
		os.Exit(1)
	case "export-hang":
		time.Sleep(10 * time.Second)
		os.Exit(0)
	case "frame":
		if err := png.Encode(os.Stdout, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}
	os.Exit(0)
}
