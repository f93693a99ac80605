package timeline

import (
	"context"
	"image"
	"log/slog"
	"time"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/media"
	"clipforge/internal/services"
)

// composeProgressShare is the fraction of the overall generation progress
// range reserved for the per-item composition loop; the remainder belongs to
// the export phase.
const composeProgressShare = 0.8

// ContentLoader is the slice of the media source the builder needs.
type ContentLoader interface {
	LoadFullImage(ctx context.Context, item media.Item) (image.Image, error)
	LoadVideoHandle(ctx context.Context, item media.Item) (media.VideoHandle, error)
}

// ProgressFunc receives fractional progress in [0,1].
type ProgressFunc func(fraction float64)

// Builder converts an ordered heterogeneous media list into a Composition.
type Builder struct {
	source       ContentLoader
	logger       *slog.Logger
	imageClipLen time.Duration
	frameWidth   int
	frameHeight  int
	frameRate    int
}

// NewBuilder constructs a composition builder from configuration.
func NewBuilder(cfg *config.Config, source ContentLoader, logger *slog.Logger) *Builder {
	builder := &Builder{
		source:       source,
		logger:       logging.NewComponentLogger(logger, "timeline"),
		imageClipLen: 3 * time.Second,
		frameWidth:   1080,
		frameHeight:  1920,
		frameRate:    30,
	}
	if cfg != nil {
		builder.imageClipLen = time.Duration(cfg.Render.ImageClipSeconds) * time.Second
		builder.frameWidth = cfg.Render.FrameWidth
		builder.frameHeight = cfg.Render.FrameHeight
		builder.frameRate = cfg.Render.FrameRate
	}
	return builder
}

// Compose walks items strictly in input order and assembles the timeline:
// video items span their intrinsic duration, image items become fixed-length
// held clips scaled center-fit to the output frame. Items that cannot be
// loaded contribute zero duration and are skipped; that degraded result is
// deliberate and never retried. Only an unusable output track configuration
// aborts the whole operation.
//
// Progress is published as index/total scaled into the composition share of
// the overall range, so the caller observes one smooth value across compose
// and export.
func (b *Builder) Compose(ctx context.Context, items []media.Item, progress ProgressFunc) (*Composition, error) {
	if progress == nil {
		progress = func(float64) {}
	}
	if b.frameWidth <= 0 || b.frameHeight <= 0 || b.imageClipLen <= 0 {
		return nil, services.Wrap(services.ErrValidation, "timeline", "compose", "cannot allocate output track", nil)
	}

	composition := &Composition{
		FrameWidth:  b.frameWidth,
		FrameHeight: b.frameHeight,
		FrameRate:   b.frameRate,
	}

	total := len(items)
	for index, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		progress(float64(index) / float64(total) * composeProgressShare)

		switch item.Kind {
		case media.KindVideo:
			b.appendVideo(ctx, composition, item)
		case media.KindImage:
			b.appendImage(ctx, composition, item)
		default:
			b.logger.Debug("skipping item of unknown kind",
				logging.String(logging.FieldMediaID, item.ID),
				logging.String("kind", string(item.Kind)),
			)
		}
	}

	progress(composeProgressShare)
	b.logger.Info("composition assembled",
		logging.Int("items", total),
		logging.Int("segments", len(composition.Segments)),
		logging.Duration("duration", composition.Duration()),
	)
	return composition, nil
}

func (b *Builder) appendVideo(ctx context.Context, composition *Composition, item media.Item) {
	handle, err := b.source.LoadVideoHandle(ctx, item)
	if err != nil {
		b.logger.Debug("skipping unloadable video",
			logging.String(logging.FieldMediaID, item.ID),
			logging.Error(err),
		)
		return
	}
	// A clip whose audio cannot be carried still contributes its video; the
	// renderer downgrades per-segment audio failures to silence.
	composition.append(Segment{
		SourceItemID: item.ID,
		Kind:         media.KindVideo,
		SourcePath:   handle.Path,
		Length:       handle.Duration,
		HasAudio:     handle.HasAudio,
	})
}

func (b *Builder) appendImage(ctx context.Context, composition *Composition, item media.Item) {
	img, err := b.source.LoadFullImage(ctx, item)
	if err != nil {
		b.logger.Debug("skipping undecodable image",
			logging.String(logging.FieldMediaID, item.ID),
			logging.Error(err),
		)
		return
	}
	bounds := img.Bounds()
	transform := CenterFit(bounds.Dx(), bounds.Dy(), b.frameWidth, b.frameHeight)
	composition.append(Segment{
		SourceItemID: item.ID,
		Kind:         media.KindImage,
		SourcePath:   item.Path,
		Length:       b.imageClipLen,
		Transform:    transform,
	})
}
