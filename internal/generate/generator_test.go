package generate

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"clipforge/internal/analysis"
	"clipforge/internal/catalog"
	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/media"
	"clipforge/internal/preflight"
	"clipforge/internal/render"
	"clipforge/internal/services"
	"clipforge/internal/testsupport"
	"clipforge/internal/timeline"
)

type stubComposer struct {
	composition *timeline.Composition
	err         error
}

func (s *stubComposer) Compose(_ context.Context, items []media.Item, progress timeline.ProgressFunc) (*timeline.Composition, error) {
	if s.err != nil {
		return nil, s.err
	}
	if progress != nil {
		for i := range items {
			progress(float64(i) / float64(len(items)) * 0.8)
		}
		progress(0.8)
	}
	return s.composition, nil
}

type stubExporter struct {
	status   render.Status
	err      error
	destPath string
	// writeOutput mimics a real encode by materializing the destination file.
	writeOutput bool
}

func (s *stubExporter) Export(_ context.Context, _ *timeline.Composition, destPath string, progress func(float64)) (render.Status, error) {
	s.destPath = destPath
	if progress != nil {
		progress(0.5)
		if s.status == render.StatusCompleted {
			progress(1.0)
		}
	}
	if s.writeOutput && s.status == render.StatusCompleted {
		if err := os.WriteFile(destPath, []byte("mp4"), 0o644); err != nil {
			return render.StatusFailed, err
		}
	}
	return s.status, s.err
}

type stubCataloger struct {
	appended []catalog.GeneratedVideo
	err      error
}

func (s *stubCataloger) Append(_ context.Context, video catalog.GeneratedVideo) error {
	if s.err != nil {
		return s.err
	}
	s.appended = append(s.appended, video)
	return nil
}

func passingPreflight(context.Context, *config.Config) []preflight.Result {
	return []preflight.Result{{Name: "ok", Passed: true}}
}

func testItems() []media.Item {
	return []media.Item{
		{ID: "still-a", Kind: media.KindImage, Path: "/media/a.jpg"},
		{ID: "clip-b", Kind: media.KindVideo, Path: "/media/b.mp4"},
	}
}

func testTags() []analysis.Tag {
	return []analysis.Tag{
		{Label: "Beach", Category: analysis.CategoryLocation},
		{Label: "Travel", Category: analysis.CategoryActivity},
	}
}

func newTestGenerator(t *testing.T, store Cataloger, composer Composer, exporter render.Exporter) (*Generator, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	generator := NewGenerator(cfg, store, composer, exporter, logging.NewNop())
	generator.runPreflight = passingPreflight
	return generator, cfg
}

func okComposition() *timeline.Composition {
	return timeline.NewComposition(1080, 1920, 30,
		timeline.Segment{SourceItemID: "still-a", Kind: media.KindImage, SourcePath: "/media/a.jpg", Length: 3 * time.Second},
		timeline.Segment{SourceItemID: "clip-b", Kind: media.KindVideo, SourcePath: "/media/b.mp4", Length: 5 * time.Second, HasAudio: true},
	)
}

func TestGenerateHappyPath(t *testing.T) {
	store := &stubCataloger{}
	exporter := &stubExporter{status: render.StatusCompleted, writeOutput: true}
	generator, cfg := newTestGenerator(t, store, &stubComposer{composition: okComposition()}, exporter)

	var fractions []float64
	video, err := generator.Generate(context.Background(), Request{
		Items: testItems(),
		Tags:  testTags(),
		Style: catalog.StyleTrending,
	}, func(fraction float64) {
		fractions = append(fractions, fraction)
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if video.Title != "#Beach #Travel" {
		t.Fatalf("unexpected title %q", video.Title)
	}
	if video.Duration != 8*time.Second {
		t.Fatalf("unexpected duration %v", video.Duration)
	}
	if len(video.SourceMediaIDs) != 2 || video.SourceMediaIDs[0] != "still-a" {
		t.Fatalf("unexpected source ids %v", video.SourceMediaIDs)
	}
	if video.Platform != catalog.PlatformAny {
		t.Fatalf("platform must default to Any, got %v", video.Platform)
	}
	if !strings.HasPrefix(exporter.destPath, cfg.Paths.VideosDir) || !strings.HasSuffix(exporter.destPath, video.ID+".mp4") {
		t.Fatalf("output must live under the videos dir named by id, got %s", exporter.destPath)
	}
	if len(store.appended) != 1 || store.appended[0].ID != video.ID {
		t.Fatalf("expected one catalog append, got %#v", store.appended)
	}

	if len(fractions) == 0 || fractions[len(fractions)-1] != 1.0 {
		t.Fatalf("progress must end at exactly 1.0: %v", fractions)
	}
	for i := 1; i < len(fractions); i++ {
		if fractions[i] < fractions[i-1] {
			t.Fatalf("progress regressed: %v", fractions)
		}
	}
}

func TestGenerateRejectsEmptySelection(t *testing.T) {
	generator, _ := newTestGenerator(t, &stubCataloger{}, &stubComposer{}, &stubExporter{})
	_, err := generator.Generate(context.Background(), Request{}, nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGenerateRejectsUnusableComposition(t *testing.T) {
	composer := &stubComposer{composition: timeline.NewComposition(1080, 1920, 30)}
	generator, _ := newTestGenerator(t, &stubCataloger{}, composer, &stubExporter{})
	_, err := generator.Generate(context.Background(), Request{Items: testItems()}, nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty composition, got %v", err)
	}
}

func TestGenerateFailedPreflight(t *testing.T) {
	generator, _ := newTestGenerator(t, &stubCataloger{}, &stubComposer{composition: okComposition()}, &stubExporter{status: render.StatusCompleted})
	generator.runPreflight = func(context.Context, *config.Config) []preflight.Result {
		return []preflight.Result{{Name: "FFmpeg", Detail: "ffmpeg not found in PATH"}}
	}
	_, err := generator.Generate(context.Background(), Request{Items: testItems()}, nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "ffmpeg not found") {
		t.Fatalf("expected failure detail in error, got %v", err)
	}
}

func TestGenerateExportFailureLeavesCatalogUntouched(t *testing.T) {
	store := &stubCataloger{}
	exporter := &stubExporter{status: render.StatusFailed, err: services.Wrap(services.ErrExternalTool, "render", "export", "export failed", nil)}
	generator, _ := newTestGenerator(t, store, &stubComposer{composition: okComposition()}, exporter)

	_, err := generator.Generate(context.Background(), Request{Items: testItems()}, nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected export error, got %v", err)
	}
	if len(store.appended) != 0 {
		t.Fatalf("catalog must stay untouched after export failure, got %#v", store.appended)
	}
}

func TestGenerateNonCompletedStatusIsFailure(t *testing.T) {
	// A nil error with a non-completed status must still fail.
	exporter := &stubExporter{status: render.StatusFailed}
	generator, _ := newTestGenerator(t, &stubCataloger{}, &stubComposer{composition: okComposition()}, exporter)

	_, err := generator.Generate(context.Background(), Request{Items: testItems()}, nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "export failed") {
		t.Fatalf("expected generic export failure message, got %v", err)
	}
}

func TestGenerateCatalogFailureRemovesOutput(t *testing.T) {
	store := &stubCataloger{err: errors.New("disk full")}
	exporter := &stubExporter{status: render.StatusCompleted, writeOutput: true}
	generator, _ := newTestGenerator(t, store, &stubComposer{composition: okComposition()}, exporter)

	_, err := generator.Generate(context.Background(), Request{Items: testItems()}, nil)
	if err == nil {
		t.Fatal("expected catalog failure to propagate")
	}
	if _, statErr := os.Stat(exporter.destPath); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("orphaned output must be removed when cataloging fails")
	}
}

func TestGenerateHonorsCancellationBeforeExport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	composer := &stubComposer{composition: okComposition()}
	exporter := &stubExporter{status: render.StatusCompleted}
	generator, _ := newTestGenerator(t, &stubCataloger{}, composerCancelling{composer, cancel}, exporter)

	_, err := generator.Generate(ctx, Request{Items: testItems()}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if exporter.destPath != "" {
		t.Fatal("export must not start after cancellation")
	}
}

// composerCancelling cancels the run's context as composition finishes,
// simulating a cancel that lands between the compose and export phases.
type composerCancelling struct {
	inner  *stubComposer
	cancel context.CancelFunc
}

func (c composerCancelling) Compose(ctx context.Context, items []media.Item, progress timeline.ProgressFunc) (*timeline.Composition, error) {
	composition, err := c.inner.Compose(ctx, items, progress)
	c.cancel()
	return composition, err
}

func TestProgressChannelNeverBlocks(t *testing.T) {
	ch := make(chan float64, 1)
	publish := ProgressChannel(ch)
	publish(0.25)
	publish(0.5) // buffer full, dropped
	if got := <-ch; got != 0.25 {
		t.Fatalf("expected first value retained, got %v", got)
	}
	select {
	case v := <-ch:
		t.Fatalf("expected later value dropped, got %v", v)
	default:
	}
}
