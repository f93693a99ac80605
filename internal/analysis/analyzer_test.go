package analysis

import (
	"context"
	"errors"
	"image"
	"testing"

	"clipforge/internal/logging"
	"clipforge/internal/media"
)

type stubLoader struct {
	fail map[string]bool
}

func (s *stubLoader) LoadFullImage(_ context.Context, item media.Item) (image.Image, error) {
	if s.fail[item.ID] {
		return nil, errors.New("decode failed")
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

type stubClassifier struct {
	faces       bool
	facesErr    error
	results     []Classification
	classifyErr error
}

func (s *stubClassifier) DetectFaces(context.Context, image.Image) (bool, error) {
	return s.faces, s.facesErr
}

func (s *stubClassifier) Classify(context.Context, image.Image) ([]Classification, error) {
	return s.results, s.classifyErr
}

func testItems(ids ...string) []media.Item {
	items := make([]media.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, media.Item{ID: id, Kind: media.KindImage, Path: id})
	}
	return items
}

func newTestAnalyzer(loader ImageLoader, classifier Classifier) *Analyzer {
	return NewAnalyzer(nil, loader, classifier, logging.NewNop())
}

func TestAnalyzeMapsAndSortsTags(t *testing.T) {
	classifier := &stubClassifier{
		faces: true,
		results: []Classification{
			{Label: "golden retriever dog", Confidence: 0.9},
			{Label: "beach umbrella", Confidence: 0.8},
		},
	}
	analyzer := newTestAnalyzer(&stubLoader{}, classifier)

	tags, err := analyzer.Analyze(context.Background(), testItems("a.jpg"), nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	// Beach appears twice (object mapping + scene keyword) but collapses by
	// label; result is sorted lexicographically.
	want := []string{"Beach", "People", "Pet", "Portrait"}
	got := Labels(tags)
	if len(got) != len(want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels = %v, want %v", got, want)
		}
	}
}

func TestAnalyzeDedupesByLabelOnly(t *testing.T) {
	tags := DedupeSorted([]Tag{
		{Label: "Travel", Category: CategoryActivity},
		{Label: "Travel", Category: CategoryLocation},
	})
	if len(tags) != 1 {
		t.Fatalf("expected label-only dedup to collapse to 1 tag, got %d", len(tags))
	}
	if tags[0].Category != CategoryActivity {
		t.Fatalf("first occurrence should win category, got %v", tags[0].Category)
	}
}

func TestAnalyzeConfidenceGate(t *testing.T) {
	classifier := &stubClassifier{
		results: []Classification{
			{Label: "dog", Confidence: 0.5}, // not strictly above threshold
			{Label: "cat", Confidence: 0.51},
		},
	}
	analyzer := newTestAnalyzer(&stubLoader{}, classifier)

	tags, err := analyzer.Analyze(context.Background(), testItems("a.jpg"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 || tags[0].Label != "Pet" {
		t.Fatalf("expected single Pet tag from cat, got %v", tags)
	}
}

func TestAnalyzeSwallowsItemFailures(t *testing.T) {
	loader := &stubLoader{fail: map[string]bool{"bad.jpg": true}}
	classifier := &stubClassifier{
		results: []Classification{{Label: "coffee cup", Confidence: 0.9}},
	}
	analyzer := newTestAnalyzer(loader, classifier)

	tags, err := analyzer.Analyze(context.Background(), testItems("bad.jpg", "good.jpg"), nil)
	if err != nil {
		t.Fatalf("item failure must not abort batch: %v", err)
	}
	if len(tags) != 1 || tags[0].Label != "Coffee" {
		t.Fatalf("expected Coffee from surviving item, got %v", tags)
	}
}

func TestAnalyzeSwallowsClassifierErrors(t *testing.T) {
	classifier := &stubClassifier{
		facesErr:    errors.New("model not loaded"),
		classifyErr: errors.New("model not loaded"),
	}
	analyzer := newTestAnalyzer(&stubLoader{}, classifier)

	tags, err := analyzer.Analyze(context.Background(), testItems("a.jpg"), nil)
	if err != nil {
		t.Fatalf("classifier failure must not abort batch: %v", err)
	}
	if len(tags) != 0 {
		t.Fatalf("expected no tags, got %v", tags)
	}
}

func TestAnalyzeProgressMonotoneToOne(t *testing.T) {
	analyzer := newTestAnalyzer(&stubLoader{}, &stubClassifier{})

	var fractions []float64
	_, err := analyzer.Analyze(context.Background(), testItems("a.jpg", "b.jpg", "c.jpg", "d.jpg"), func(f float64) {
		fractions = append(fractions, f)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(fractions) != 4 {
		t.Fatalf("expected one update per item, got %v", fractions)
	}
	prev := 0.0
	for _, f := range fractions {
		if f < prev {
			t.Fatalf("progress regressed: %v", fractions)
		}
		prev = f
	}
	if fractions[len(fractions)-1] != 1.0 {
		t.Fatalf("final progress = %v, want exactly 1.0", fractions[len(fractions)-1])
	}
}

func TestAnalyzeEmptySelection(t *testing.T) {
	analyzer := newTestAnalyzer(&stubLoader{}, &stubClassifier{})

	var last float64
	tags, err := analyzer.Analyze(context.Background(), nil, func(f float64) { last = f })
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 0 {
		t.Fatalf("expected no tags, got %v", tags)
	}
	if last != 1.0 {
		t.Fatalf("empty selection should still complete progress, got %v", last)
	}
}

func TestAnalyzeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := newTestAnalyzer(&stubLoader{}, &stubClassifier{})
	_, err := analyzer.Analyze(ctx, testItems("a.jpg"), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
