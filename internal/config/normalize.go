package config

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-gpr/gpr/volume"
)

func (c *Config) normalize() error {
	c.normalizeLogging()
	if c.Reader.DepthBins == 0 {
		c.Reader.DepthBins = volume.DefaultDepthBins
	}
	if c.Render.Scale == 0 {
		c.Render.Scale = defaultScale
	}
	return c.normalizePaths()
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	if c.Render.OutputDir, err = expandPath(strings.TrimSpace(c.Render.OutputDir)); err != nil {
		return fmt.Errorf("render.output_dir: %w", err)
	}
	if c.Journal.Path, err = expandPath(strings.TrimSpace(c.Journal.Path)); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	if c.Filters.Path, err = expandPath(strings.TrimSpace(c.Filters.Path)); err != nil {
		return fmt.Errorf("filters.path: %w", err)
	}
	return nil
}
