package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"clipforge/internal/analysis"
	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/media"
	"clipforge/internal/render"
	"clipforge/internal/services/vision"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// newTools resolves the external binaries once per command invocation.
func (c *commandContext) newTools() (*render.Tools, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return render.NewTools(cfg.FFmpegBinary(), cfg.FFprobeBinary())
}

// newSource builds the filesystem media source, wiring video frame
// extraction through ffmpeg when the tools resolve.
func (c *commandContext) newSource(tools *render.Tools) (*media.FSSource, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	opts := []media.FSOption{media.WithFFprobeBinary(cfg.FFprobeBinary())}
	if tools != nil {
		opts = append(opts, media.WithFrameExtractor(tools))
	}
	return media.NewFSSource(cfg.Paths.MediaDir, logger, opts...), nil
}

// newClassifier picks the configured external classifier command, or the
// no-op classifier when none is configured.
func (c *commandContext) newClassifier() (analysis.Classifier, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	command := strings.TrimSpace(cfg.Analysis.ClassifierCommand)
	if command == "" {
		return vision.Noop{}, nil
	}
	return vision.NewCLI(vision.WithCommand(command)), nil
}

// selectItems resolves command-line media ids against the available listing.
// Without ids the whole listing is selected, preserving its newest-first
// order; with ids the selection follows the argument order.
func selectItems(available []media.Item, ids []string) ([]media.Item, error) {
	if len(ids) == 0 {
		return available, nil
	}
	byID := make(map[string]media.Item, len(available))
	for _, item := range available {
		byID[item.ID] = item
	}
	selection := make([]media.Item, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[strings.TrimSpace(id)]
		if !ok {
			return nil, fmt.Errorf("unknown media id %q (run `clipforge media` to list available items)", id)
		}
		selection = append(selection, item)
	}
	return selection, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
