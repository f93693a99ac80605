package generate

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"clipforge/internal/analysis"
	"clipforge/internal/catalog"
	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/media"
	"clipforge/internal/preflight"
	"clipforge/internal/render"
	"clipforge/internal/services"
	"clipforge/internal/timeline"
	"clipforge/internal/title"
)

// ProgressFunc receives the single smooth progress stream of a generation
// run: composition covers 0 to 0.8, export 0.8 to 1.0, and exactly 1.0 is
// published once the result is cataloged.
type ProgressFunc func(fraction float64)

// ProgressChannel adapts a channel consumer to a ProgressFunc. Updates are
// dropped rather than blocking the pipeline when the consumer falls behind.
func ProgressChannel(ch chan<- float64) ProgressFunc {
	return func(fraction float64) {
		select {
		case ch <- fraction:
		default:
		}
	}
}

// Composer assembles a timeline from an ordered media selection.
type Composer interface {
	Compose(ctx context.Context, items []media.Item, progress timeline.ProgressFunc) (*timeline.Composition, error)
}

// Cataloger records finished videos.
type Cataloger interface {
	Append(ctx context.Context, video catalog.GeneratedVideo) error
}

// Request describes one video to generate.
type Request struct {
	Items    []media.Item
	Tags     []analysis.Tag
	Style    catalog.Style
	Platform catalog.Platform
}

// Generator orchestrates compose, export, titling, and cataloging for one
// request at a time. Each call owns all of its intermediate state; nothing is
// shared between concurrent runs except the catalog store, which serializes
// itself.
type Generator struct {
	cfg      *config.Config
	store    Cataloger
	builder  Composer
	exporter render.Exporter
	logger   *slog.Logger

	// runPreflight is swapped in tests to avoid probing the real environment.
	runPreflight func(ctx context.Context, cfg *config.Config) []preflight.Result

	removeFile func(path string) error
}

// NewGenerator wires a generator from its collaborators.
func NewGenerator(cfg *config.Config, store Cataloger, builder Composer, exporter render.Exporter, logger *slog.Logger) *Generator {
	return &Generator{
		cfg:          cfg,
		store:        store,
		builder:      builder,
		exporter:     exporter,
		logger:       logging.NewComponentLogger(logger, "generate"),
		runPreflight: preflight.RunAll,
		removeFile:   removeIfPresent,
	}
}

// Generate runs the full pipeline for one request and returns the cataloged
// record. On any failure the destination file is not left behind and the
// catalog is untouched.
func (g *Generator) Generate(ctx context.Context, req Request, progress ProgressFunc) (*catalog.GeneratedVideo, error) {
	if progress == nil {
		progress = func(float64) {}
	}
	if len(req.Items) == 0 {
		return nil, services.Wrap(services.ErrValidation, "generate", "validate", "no media selected", nil)
	}
	style := req.Style
	if style == "" {
		style = catalog.StyleTrending
	}
	platform := req.Platform
	if platform == "" {
		platform = catalog.PlatformAny
	}

	if results := g.runPreflight(ctx, g.cfg); !preflight.AllPassed(results) {
		failure, _ := preflight.FirstFailure(results)
		return nil, services.Wrap(services.ErrConfiguration, "generate", "preflight", failure.Name+": "+failure.Detail, nil)
	}

	id := uuid.NewString()
	destPath := filepath.Join(g.cfg.Paths.VideosDir, id+".mp4")
	ctx = services.WithRequestID(ctx, id)
	g.logger.Info("generation started",
		logging.String(logging.FieldVideoID, id),
		logging.Int("items", len(req.Items)),
		logging.String("style", string(style)),
	)

	composition, err := g.builder.Compose(ctx, req.Items, timeline.ProgressFunc(progress))
	if err != nil {
		return nil, err
	}
	if len(composition.Segments) == 0 {
		return nil, services.Wrap(services.ErrValidation, "generate", "compose", "no usable media in selection", nil)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	status, err := g.exporter.Export(ctx, composition, destPath, func(fraction float64) {
		progress(0.8 + 0.2*fraction)
	})
	if err != nil {
		return nil, err
	}
	if status != render.StatusCompleted {
		return nil, services.Wrap(services.ErrExternalTool, "generate", "export", "export failed", nil)
	}

	labels := analysis.Labels(req.Tags)
	video := catalog.GeneratedVideo{
		ID:             id,
		CreatedAt:      time.Now().UTC(),
		Title:          title.ForStyle(style, labels),
		SourceMediaIDs: itemIDs(req.Items),
		AnalysisTags:   labels,
		OutputPath:     destPath,
		Duration:       composition.Duration(),
		Style:          style,
		Platform:       platform,
	}
	if err := g.store.Append(ctx, video); err != nil {
		// Never leave an uncataloged export behind.
		if removeErr := g.removeFile(destPath); removeErr != nil {
			g.logger.Warn("could not remove orphaned output",
				logging.String("dest", destPath),
				logging.Error(removeErr),
			)
		}
		return nil, err
	}

	progress(1.0)
	g.logger.Info("generation finished",
		logging.String(logging.FieldVideoID, id),
		logging.String("title", video.Title),
		logging.Duration("duration", video.Duration),
	)
	return &video, nil
}

func removeIfPresent(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func itemIDs(items []media.Item) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
