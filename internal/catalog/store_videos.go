package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"clipforge/internal/services"
)

const videoColumns = "id, created_at, title, source_media_ids, analysis_tags, output_path, thumbnail_path, duration_seconds, style, platform"

// Append persists a new record. The record becomes the most recent entry:
// List returns newest first by creation time.
func (s *Store) Append(ctx context.Context, video GeneratedVideo) error {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(video.ID) == "" {
		return errors.New("append video: id required")
	}
	if strings.TrimSpace(video.OutputPath) == "" {
		return errors.New("append video: output path required")
	}
	if video.CreatedAt.IsZero() {
		video.CreatedAt = time.Now().UTC()
	}

	sourceIDs, err := encodeStrings(video.SourceMediaIDs)
	if err != nil {
		return fmt.Errorf("encode source media ids: %w", err)
	}
	tags, err := encodeStrings(video.AnalysisTags)
	if err != nil {
		return fmt.Errorf("encode analysis tags: %w", err)
	}

	_, err = s.execWithRetry(ctx,
		`INSERT INTO videos (`+videoColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		video.ID,
		video.CreatedAt.UTC().Format(time.RFC3339Nano),
		video.Title,
		sourceIDs,
		tags,
		video.OutputPath,
		video.ThumbnailPath,
		video.Duration.Seconds(),
		string(video.Style),
		string(video.Platform),
	)
	if err != nil {
		return fmt.Errorf("append video %s: %w", video.ID, err)
	}
	return nil
}

// List returns every cataloged video, most recent first.
func (s *Store) List(ctx context.Context) ([]GeneratedVideo, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+videoColumns+` FROM videos ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []GeneratedVideo
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, nil
}

// Get returns a single record by id.
func (s *Store) Get(ctx context.Context, id string) (GeneratedVideo, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return GeneratedVideo{}, fmt.Errorf("%w: video %q", services.ErrNotFound, id)
	}
	if err != nil {
		return GeneratedVideo{}, err
	}
	return video, nil
}

// Delete removes a record and its files. File removal is best effort: a file
// that is already gone, or cannot be removed, never blocks dropping the entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	video, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	for _, path := range []string{video.OutputPath, video.ThumbnailPath} {
		if strings.TrimSpace(path) == "" {
			continue
		}
		_ = os.Remove(path)
	}

	if _, err := s.execWithRetry(ctx, `DELETE FROM videos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete video %s: %w", id, err)
	}
	return nil
}

// Reconcile drops records whose output file no longer exists, returning the
// removed ids. Run at open so the catalog never advertises missing videos.
func (s *Store) Reconcile(ctx context.Context) ([]string, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT id, output_path FROM videos`)
	if err != nil {
		return nil, fmt.Errorf("reconcile scan: %w", err)
	}

	var stale []string
	for rows.Next() {
		var id, outputPath string
		if err := rows.Scan(&id, &outputPath); err != nil {
			rows.Close()
			return nil, fmt.Errorf("reconcile scan row: %w", err)
		}
		if _, statErr := os.Stat(outputPath); errors.Is(statErr, fs.ErrNotExist) {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("reconcile iterate: %w", err)
	}
	rows.Close()

	for _, id := range stale {
		if _, err := s.execWithRetry(ctx, `DELETE FROM videos WHERE id = ?`, id); err != nil {
			return stale, fmt.Errorf("reconcile delete %s: %w", id, err)
		}
	}
	return stale, nil
}

// Count returns the number of cataloged videos.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM videos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (GeneratedVideo, error) {
	var (
		video           GeneratedVideo
		createdAt       string
		sourceIDs       string
		tags            string
		durationSeconds float64
		style           string
		platform        string
	)
	err := row.Scan(
		&video.ID,
		&createdAt,
		&video.Title,
		&sourceIDs,
		&tags,
		&video.OutputPath,
		&video.ThumbnailPath,
		&durationSeconds,
		&style,
		&platform,
	)
	if err != nil {
		return GeneratedVideo{}, err
	}

	video.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return GeneratedVideo{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if video.SourceMediaIDs, err = decodeStrings(sourceIDs); err != nil {
		return GeneratedVideo{}, fmt.Errorf("decode source media ids: %w", err)
	}
	if video.AnalysisTags, err = decodeStrings(tags); err != nil {
		return GeneratedVideo{}, fmt.Errorf("decode analysis tags: %w", err)
	}
	video.Duration = time.Duration(durationSeconds * float64(time.Second))
	video.Style = Style(style)
	video.Platform = Platform(platform)
	return video, nil
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeStrings(value string) ([]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(value), &values); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}
