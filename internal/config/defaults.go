package config

import (
	"github.com/cwbudde/algo-gpr/gpr/align"
	"github.com/cwbudde/algo-gpr/gpr/volume"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "auto"
	defaultVMin      = -3000
	defaultVMax      = 3000
	defaultScale     = 4
	defaultDepth     = 30
	defaultOutputDir = "out"
)

// Default returns a Config populated with the documented defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Reader: Reader{
			DepthBins: volume.DefaultDepthBins,
		},
		Align: Align{
			NegThreshold: align.DefaultNegThreshold,
			PosThreshold: align.DefaultPosThreshold,
			Pad:          align.DefaultPad,
		},
		Render: Render{
			Enabled:     true,
			VMin:        defaultVMin,
			VMax:        defaultVMax,
			Scale:       defaultScale,
			ChunkMeters: volume.DefaultChunkMeters,
			Depth:       defaultDepth,
			OutputDir:   defaultOutputDir,
		},
	}
}
