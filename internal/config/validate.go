package config

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-gpr/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateReader(); err != nil {
		return err
	}
	if err := c.validateAlign(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("logging.format %q is not one of console, json, auto", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateReader() error {
	if c.Reader.Channels < 0 {
		return errors.New("reader.channels must not be negative")
	}
	if c.Reader.DepthBins < 0 {
		return errors.New("reader.depth_bins must not be negative")
	}
	return nil
}

func (c *Config) validateAlign() error {
	if c.Align.NegThreshold >= c.Align.PosThreshold {
		return errors.New("align.neg_threshold must be below align.pos_threshold")
	}
	if c.Align.Pad < 0 {
		return errors.New("align.pad must not be negative")
	}
	return nil
}

func (c *Config) validateRender() error {
	if !c.Render.Enabled {
		return nil
	}
	if c.Render.VMin >= c.Render.VMax {
		return errors.New("render.vmin must be below render.vmax")
	}
	if c.Render.Scale < 1 {
		return errors.New("render.scale must be at least 1")
	}
	if c.Render.ChunkMeters < 0 {
		return errors.New("render.chunk_meters must not be negative")
	}
	if c.Render.Depth < 0 || c.Render.Depth > c.Reader.DepthBins {
		return fmt.Errorf("render.depth must be in [0, %d]", c.Reader.DepthBins)
	}
	if c.Render.OutputDir == "" {
		return errors.New("render.output_dir must be set when render.enabled is true")
	}
	return nil
}
