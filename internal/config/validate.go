package config

import (
	"errors"
	"fmt"
)

var validPresets = map[string]struct{}{
	"ultrafast": {}, "superfast": {}, "veryfast": {}, "faster": {}, "fast": {},
	"medium": {}, "slow": {}, "slower": {}, "veryslow": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.VideosDir == "" {
		return errors.New("paths.videos_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.ImageClipSeconds <= 0 {
		return errors.New("render.image_clip_seconds must be positive")
	}
	if c.Render.FrameWidth <= 0 || c.Render.FrameHeight <= 0 {
		return errors.New("render.frame_width and render.frame_height must be positive")
	}
	if c.Render.FrameRate <= 0 {
		return errors.New("render.frame_rate must be positive")
	}
	if c.Render.CRF < 0 || c.Render.CRF > 51 {
		return errors.New("render.crf must be between 0 and 51")
	}
	if c.Render.Preset != "" {
		if _, ok := validPresets[c.Render.Preset]; !ok {
			return fmt.Errorf("render.preset: unsupported value %q", c.Render.Preset)
		}
	}
	if c.Render.MinFreeGiB < 0 {
		return errors.New("render.min_free_gib must not be negative")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.ConfidenceThreshold < 0 || c.Analysis.ConfidenceThreshold > 1 {
		return errors.New("analysis.confidence_threshold must be between 0 and 1")
	}
	if c.Analysis.MaxClassifications <= 0 {
		return errors.New("analysis.max_classifications must be positive")
	}
	if c.Analysis.TrendingSampleSize < 0 {
		return errors.New("analysis.trending_sample_size must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
