package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/cwbudde/algo-gpr/gpr/align"
	"github.com/cwbudde/algo-gpr/gpr/chain"
)

//go:embed sample_config.toml
var sampleConfig string

// Logging controls the process logger.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Reader overrides the acquisition geometry.
type Reader struct {
	// Channels overrides NUMBER_OF_CH when positive.
	Channels  int `toml:"channels"`
	DepthBins int `toml:"depth_bins"`
}

// Align mirrors align.Options.
type Align struct {
	NegThreshold        float64 `toml:"neg_threshold"`
	PosThreshold        float64 `toml:"pos_threshold"`
	Pad                 int     `toml:"pad"`
	Placeholder         float64 `toml:"placeholder"`
	ManualGroundOffsets []int   `toml:"manual_ground_offsets"`
	SkipAmplitude       bool    `toml:"skip_amplitude"`
	SkipGround          bool    `toml:"skip_ground"`
	SkipChannel         bool    `toml:"skip_channel"`
}

// Render controls image output.
type Render struct {
	Enabled bool    `toml:"enabled"`
	VMin    float64 `toml:"vmin"`
	VMax    float64 `toml:"vmax"`
	Scale   int     `toml:"scale"`
	// ChunkMeters is the along-track length of one rendered chunk; 0 renders
	// the whole line as one chunk.
	ChunkMeters float64 `toml:"chunk_meters"`
	// Depth is the number of leading depth levels rendered as plan-view
	// slices; 0 renders every level.
	Depth     int    `toml:"depth"`
	OutputDir string `toml:"output_dir"`
}

// Journal locates the run journal. An empty path disables it.
type Journal struct {
	Path string `toml:"path"`
}

// Filters locates the filter table. An empty path selects the built-in
// table.
type Filters struct {
	Path string `toml:"path"`
}

// Config encapsulates all configuration values for gprproc.
type Config struct {
	Workers int     `toml:"workers"`
	Logging Logging `toml:"logging"`
	Reader  Reader  `toml:"reader"`
	Align   Align   `toml:"align"`
	Render  Render  `toml:"render"`
	Journal Journal `toml:"journal"`
	Filters Filters `toml:"filters"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/gprproc/config.toml")
}

// Load parses and validates the configuration at path. A missing file is
// not an error: defaults are returned with exists=false. An empty path
// selects DefaultConfigPath.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return nil, false, err
		}
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, false, err
	}

	exists := true
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, false, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return &cfg, exists, nil
}

// AlignOptions converts the [align] section.
func (c *Config) AlignOptions() align.Options {
	return align.Options{
		NegThreshold:        c.Align.NegThreshold,
		PosThreshold:        c.Align.PosThreshold,
		Pad:                 c.Align.Pad,
		Placeholder:         c.Align.Placeholder,
		ManualGroundOffsets: append([]int(nil), c.Align.ManualGroundOffsets...),
		SkipAmplitude:       c.Align.SkipAmplitude,
		SkipGround:          c.Align.SkipGround,
		SkipChannel:         c.Align.SkipChannel,
		Workers:             c.Workers,
	}
}

// FilterTable loads the configured filter table, re-read on every call.
func (c *Config) FilterTable() (chain.Table, error) {
	if c.Filters.Path == "" {
		return chain.DefaultTable(), nil
	}
	return chain.Load(c.Filters.Path)
}

// CreateSample writes a sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
