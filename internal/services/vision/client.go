package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strings"

	"clipforge/internal/analysis"
)

var commandContext = exec.CommandContext

// Option configures the CLI client.
type Option func(*CLI)

// WithCommand overrides the classifier command.
func WithCommand(command string) Option {
	return func(c *CLI) {
		if command != "" {
			c.command = command
		}
	}
}

// CLI wraps an external classifier command. The command is invoked with a
// single subcommand argument ("faces" or "classify"), receives a PNG-encoded
// frame on stdin, and prints a JSON result on stdout.
type CLI struct {
	command string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{command: "clipforge-classifier"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// DetectFaces reports whether the frame contains at least one face.
func (c *CLI) DetectFaces(ctx context.Context, img image.Image) (bool, error) {
	output, err := c.run(ctx, "faces", img)
	if err != nil {
		return false, err
	}
	var payload struct {
		Faces bool `json:"faces"`
	}
	if err := json.Unmarshal(output, &payload); err != nil {
		return false, fmt.Errorf("parse faces output: %w", err)
	}
	return payload.Faces, nil
}

// Classify returns raw classification results ordered by descending confidence.
func (c *CLI) Classify(ctx context.Context, img image.Image) ([]analysis.Classification, error) {
	output, err := c.run(ctx, "classify", img)
	if err != nil {
		return nil, err
	}
	var results []analysis.Classification
	if err := json.Unmarshal(output, &results); err != nil {
		return nil, fmt.Errorf("parse classify output: %w", err)
	}
	return results, nil
}

func (c *CLI) run(ctx context.Context, subcommand string, img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	var frame bytes.Buffer
	if err := png.Encode(&frame, img); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	cmd := commandContext(ctx, c.command, subcommand)
	cmd.Stdin = &frame

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("classifier %s: %w: %s", subcommand, err, detail)
		}
		return nil, fmt.Errorf("classifier %s: %w", subcommand, err)
	}
	return stdout.Bytes(), nil
}

// Noop is a classifier that reports nothing. Used when no external classifier
// command is configured; analysis then yields no classifier-derived tags.
type Noop struct{}

func (Noop) DetectFaces(context.Context, image.Image) (bool, error) {
	return false, nil
}

func (Noop) Classify(context.Context, image.Image) ([]analysis.Classification, error) {
	return nil, nil
}

var (
	_ analysis.Classifier = (*CLI)(nil)
	_ analysis.Classifier = Noop{}
)
