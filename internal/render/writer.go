package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/cwbudde/algo-gpr/gpr/volume"
	"github.com/cwbudde/algo-gpr/internal/logging"
)

// LockName is the lock file created inside the output directory while
// images are written.
const LockName = ".gprproc.lock"

// ErrLocked is returned when another writer holds the output directory.
var ErrLocked = errors.New("render: output directory is locked by another writer")

// Options configures WriteChunks.
type Options struct {
	VMin  float64
	VMax  float64
	Scale int
	// Depth is the number of leading depth levels written as C-scans.
	// Zero or more than the volume depth writes every level.
	Depth  int
	Logger *slog.Logger
}

// DefaultOptions returns the display defaults.
func DefaultOptions() Options {
	return Options{VMin: DefaultVMin, VMax: DefaultVMax, Scale: DefaultScale, Depth: 50}
}

// Image kinds.
const (
	KindBScan = "bscan"
	KindCScan = "cscan"
)

// Written describes one image file.
type Written struct {
	Path  string
	Kind  string
	Chunk int
	// Index is the channel for B-scans and the depth level for C-scans.
	Index int
	Bytes int64
}

// WriteChunks renders w once per range into dir. Files are named
// <base>_<chunk>_ch<NN>.png and <base>_<chunk>_d<NNN>.png. The directory is
// created if needed and locked for the duration of the call.
func WriteChunks(ctx context.Context, dir, base string, w volume.Wide, ranges []volume.Range, opts Options) ([]Written, error) {
	logger := logging.OrNop(opts.Logger)
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	depth := opts.Depth
	if depth <= 0 || depth > w.Depth {
		depth = w.Depth
	}
	if len(ranges) == 0 && w.Traces > 0 {
		ranges = []volume.Range{{Start: 0, End: w.Traces}}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, LockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	defer func() { _ = lock.Unlock() }()

	var written []Written
	for i, r := range ranges {
		chunk := w.Crop(r.Start, r.Len())
		for c := 0; c < chunk.Channels; c++ {
			if err := ctx.Err(); err != nil {
				return written, err
			}
			name := fmt.Sprintf("%s_%03d_ch%02d.png", base, i, c)
			out, err := writeSlice(filepath.Join(dir, name), chunk.DepthSlice(c), opts)
			if err != nil {
				return written, err
			}
			written = append(written, Written{Path: out.path, Kind: KindBScan, Chunk: i, Index: c, Bytes: out.size})
		}
		for d := 0; d < depth; d++ {
			if err := ctx.Err(); err != nil {
				return written, err
			}
			name := fmt.Sprintf("%s_%03d_d%03d.png", base, i, d)
			out, err := writeSlice(filepath.Join(dir, name), chunk.ChannelSlice(d), opts)
			if err != nil {
				return written, err
			}
			written = append(written, Written{Path: out.path, Kind: KindCScan, Chunk: i, Index: d, Bytes: out.size})
		}
		logger.Debug("chunk rendered",
			slog.Int("chunk", i),
			slog.Int("start", r.Start),
			slog.Int("end", r.End),
		)
	}
	return written, nil
}

type fileInfo struct {
	path string
	size int64
}

func writeSlice(path string, rows [][]int32, opts Options) (fileInfo, error) {
	img, err := Normalize(rows, opts.VMin, opts.VMax)
	if err != nil {
		return fileInfo{}, err
	}
	if err := WritePNG(path, Upscale(img, opts.Scale)); err != nil {
		return fileInfo{}, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return fileInfo{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return fileInfo{path: path, size: st.Size()}, nil
}

// WritePNG encodes img to path, replacing any existing file.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
