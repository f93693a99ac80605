package analysis

import (
	"context"
	"image"
	"log/slog"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/media"
)

// Classification is a single raw classifier result.
type Classification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier produces raw detection results from a decoded frame. May fail;
// failures degrade to empty results and never abort a batch.
type Classifier interface {
	DetectFaces(ctx context.Context, img image.Image) (bool, error)
	Classify(ctx context.Context, img image.Image) ([]Classification, error)
}

// ImageLoader is the slice of the media source the analyzer needs.
type ImageLoader interface {
	LoadFullImage(ctx context.Context, item media.Item) (image.Image, error)
}

// ProgressFunc receives fractional progress in [0,1]. Values are
// monotonically non-decreasing and reach exactly 1.0 at completion.
type ProgressFunc func(fraction float64)

// Analyzer derives descriptive tags from a selection of media items.
type Analyzer struct {
	source              ImageLoader
	classifier          Classifier
	logger              *slog.Logger
	confidenceThreshold float64
	maxClassifications  int
	trendingSampleSize  int
}

// NewAnalyzer constructs an analyzer from configuration.
func NewAnalyzer(cfg *config.Config, source ImageLoader, classifier Classifier, logger *slog.Logger) *Analyzer {
	analyzer := &Analyzer{
		source:              source,
		classifier:          classifier,
		logger:              logging.NewComponentLogger(logger, "analysis"),
		confidenceThreshold: 0.5,
		maxClassifications:  5,
		trendingSampleSize:  3,
	}
	if cfg != nil {
		analyzer.confidenceThreshold = cfg.Analysis.ConfidenceThreshold
		analyzer.maxClassifications = cfg.Analysis.MaxClassifications
		analyzer.trendingSampleSize = cfg.Analysis.TrendingSampleSize
	}
	return analyzer
}

// Analyze runs the per-item tagging loop sequentially over items in input
// order. Each item is fully processed before the next decode starts, so only
// one full-resolution frame is resident at a time. Per-item failures are
// swallowed: an undecodable item or a failing sub-analysis contributes zero
// tags. The returned tags are deduplicated by label and sorted
// lexicographically. The only error returned is context cancellation.
func (a *Analyzer) Analyze(ctx context.Context, items []media.Item, progress ProgressFunc) ([]Tag, error) {
	if progress == nil {
		progress = func(float64) {}
	}

	var all []Tag
	total := len(items)
	for index, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		all = append(all, a.analyzeItem(ctx, item)...)
		progress(float64(index+1) / float64(total))
	}

	result := DedupeSorted(all)
	if total == 0 {
		progress(1.0)
	}
	a.logger.Info("analysis complete",
		logging.Int("items", total),
		logging.Int("tags", len(result)),
	)
	return result, nil
}

// Trending returns the configured sample of trending topics.
func (a *Analyzer) Trending() []Tag {
	return TrendingTags(a.trendingSampleSize)
}

func (a *Analyzer) analyzeItem(ctx context.Context, item media.Item) []Tag {
	img, err := a.source.LoadFullImage(ctx, item)
	if err != nil {
		a.logger.Debug("skipping undecodable item",
			logging.String(logging.FieldMediaID, item.ID),
			logging.Error(err),
		)
		return nil
	}

	var tags []Tag
	tags = append(tags, a.analyzeFaces(ctx, item, img)...)
	tags = append(tags, a.analyzeObjects(ctx, item, img)...)
	tags = append(tags, a.analyzeScenes(ctx, item, img)...)
	return tags
}

func (a *Analyzer) analyzeFaces(ctx context.Context, item media.Item, img image.Image) []Tag {
	present, err := a.classifier.DetectFaces(ctx, img)
	if err != nil {
		a.logger.Debug("face detection failed",
			logging.String(logging.FieldMediaID, item.ID),
			logging.Error(err),
		)
		return nil
	}
	if !present {
		return nil
	}
	return []Tag{
		{Label: "People", Category: CategoryPeople},
		{Label: "Portrait", Category: CategoryPeople},
	}
}

func (a *Analyzer) analyzeObjects(ctx context.Context, item media.Item, img image.Image) []Tag {
	results, err := a.classifier.Classify(ctx, img)
	if err != nil {
		a.logger.Debug("object classification failed",
			logging.String(logging.FieldMediaID, item.ID),
			logging.Error(err),
		)
		return nil
	}
	if len(results) > a.maxClassifications {
		results = results[:a.maxClassifications]
	}
	var tags []Tag
	for _, result := range results {
		if result.Confidence <= a.confidenceThreshold {
			continue
		}
		if label, ok := CanonicalTag(result.Label); ok {
			tags = append(tags, Tag{Label: label, Category: CategoryActivity})
		}
	}
	return tags
}

func (a *Analyzer) analyzeScenes(ctx context.Context, item media.Item, img image.Image) []Tag {
	results, err := a.classifier.Classify(ctx, img)
	if err != nil {
		a.logger.Debug("scene classification failed",
			logging.String(logging.FieldMediaID, item.ID),
			logging.Error(err),
		)
		return nil
	}
	var tags []Tag
	for _, result := range results {
		tags = append(tags, SceneTags(result.Label)...)
	}
	return tags
}
