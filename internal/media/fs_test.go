package media

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clipforge/internal/logging"
)

func writeTestPNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		t.Fatal(err)
	}
}

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestListAvailableOrdersNewestFirst(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	touch(t, filepath.Join(dir, "old.jpg"), base)
	touch(t, filepath.Join(dir, "mid.mp4"), base.Add(10*time.Minute))
	touch(t, filepath.Join(dir, "new.png"), base.Add(20*time.Minute))
	touch(t, filepath.Join(dir, "notes.txt"), base.Add(30*time.Minute))

	source := NewFSSource(dir, logging.NewNop())
	items, err := source.ListAvailable(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 media items, got %d", len(items))
	}
	wantIDs := []string{"new.png", "mid.mp4", "old.jpg"}
	for i, want := range wantIDs {
		if items[i].ID != want {
			t.Fatalf("item %d = %q, want %q", i, items[i].ID, want)
		}
	}
	if items[0].Kind != KindImage || items[1].Kind != KindVideo {
		t.Fatalf("kind detection wrong: %v %v", items[0].Kind, items[1].Kind)
	}
}

func TestListAvailableAppliesLimit(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		touch(t, filepath.Join(dir, name), base.Add(time.Duration(i)*time.Minute))
	}

	source := NewFSSource(dir, logging.NewNop())
	items, err := source.ListAvailable(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestListAvailableMissingRoot(t *testing.T) {
	source := NewFSSource(filepath.Join(t.TempDir(), "absent"), logging.NewNop())
	items, err := source.ListAvailable(context.Background(), 0)
	if err != nil {
		t.Fatalf("missing root should not error, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty listing, got %d", len(items))
	}
}

func TestLoadFullImageDecodesPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	writeTestPNG(t, path, 40, 30)

	source := NewFSSource(dir, logging.NewNop())
	img, err := source.LoadFullImage(context.Background(), Item{ID: "photo.png", Kind: KindImage, Path: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestLoadThumbnailScalesDown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	writeTestPNG(t, path, 200, 100)

	source := NewFSSource(dir, logging.NewNop())
	thumb, err := source.LoadThumbnail(context.Background(), Item{ID: "photo.png", Kind: KindImage, Path: path}, 50)
	if err != nil {
		t.Fatal(err)
	}
	if thumb.Bounds().Dx() != 50 || thumb.Bounds().Dy() != 25 {
		t.Fatalf("unexpected thumbnail bounds %v", thumb.Bounds())
	}
}

func TestLoadFullImageVideoNeedsExtractor(t *testing.T) {
	source := NewFSSource(t.TempDir(), logging.NewNop())
	_, err := source.LoadFullImage(context.Background(), Item{ID: "c.mp4", Kind: KindVideo, Path: "c.mp4"})
	if err == nil {
		t.Fatal("expected error without frame extractor")
	}
}

func TestLoadVideoHandleViaStubFFprobe(t *testing.T) {
	binDir := t.TempDir()
	stub := `#!/bin/sh
cat <<'JSON'
{"streams":[{"index":0,"codec_type":"video","width":1280,"height":720},{"index":1,"codec_type":"audio","channels":2}],"format":{"duration":"5.0"}}
JSON
`
	if err := os.WriteFile(filepath.Join(binDir, "ffprobe"), []byte(stub), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	touch(t, path, time.Now())

	source := NewFSSource(dir, logging.NewNop())
	handle, err := source.LoadVideoHandle(context.Background(), Item{ID: "clip.mp4", Kind: KindVideo, Path: path})
	if err != nil {
		t.Fatalf("load handle: %v", err)
	}
	if handle.Duration != 5*time.Second {
		t.Fatalf("duration = %v, want 5s", handle.Duration)
	}
	if !handle.HasAudio {
		t.Fatal("expected audio")
	}
	if handle.Width != 1280 || handle.Height != 720 {
		t.Fatalf("unexpected dimensions %dx%d", handle.Width, handle.Height)
	}
}

func TestKindForExtension(t *testing.T) {
	cases := []struct {
		ext  string
		want Kind
		ok   bool
	}{
		{".JPG", KindImage, true},
		{".webp", KindImage, true},
		{".mov", KindVideo, true},
		{".txt", "", false},
	}
	for _, tc := range cases {
		got, ok := KindForExtension(tc.ext)
		if got != tc.want || ok != tc.ok {
			t.Errorf("KindForExtension(%q) = %v,%v", tc.ext, got, ok)
		}
	}
}
