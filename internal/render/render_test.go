package render

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"github.com/cwbudde/algo-gpr/gpr/volume"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	img, err := Normalize([][]int32{{-5000, -3000, 0, 3000, 9000, 1500}}, DefaultVMin, DefaultVMax)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	want := []uint8{0, 0, 127, 255, 255, 191}
	for i, w := range want {
		if got := img.GrayAt(i, 0).Y; got != w {
			t.Fatalf("pixel %d = %d, want %d", i, got, w)
		}
	}
}

func TestNormalizeErrors(t *testing.T) {
	t.Parallel()

	if _, err := Normalize([][]int32{{1}}, 10, 10); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}
	if _, err := Normalize([][]int32{{1, 2}, {3}}, -1, 1); err == nil {
		t.Fatal("expected error for ragged rows")
	}
	img, err := Normalize(nil, -1, 1)
	if err != nil || !img.Bounds().Empty() {
		t.Fatalf("Normalize(nil) = %v, %v", img.Bounds(), err)
	}
}

func TestUpscale(t *testing.T) {
	t.Parallel()

	img, err := Normalize([][]int32{{100, 100, 100}, {100, 100, 100}}, DefaultVMin, DefaultVMax)
	if err != nil {
		t.Fatal(err)
	}
	up := Upscale(img, 4)
	if dx, dy := up.Bounds().Dx(), up.Bounds().Dy(); dx != 12 || dy != 8 {
		t.Fatalf("size = %dx%d, want 12x8", dx, dy)
	}
	want := img.GrayAt(0, 0).Y
	for y := 0; y < 8; y++ {
		for x := 0; x < 12; x++ {
			if got := up.GrayAt(x, y).Y; got != want {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
	if Upscale(img, 1) != img {
		t.Fatal("factor 1 should return the input")
	}
}

func testWide(channels, depth, traces int) volume.Wide {
	w := volume.Wide{Channels: channels, Depth: depth, Traces: traces, Data: make([]int32, channels*depth*traces)}
	for i := range w.Data {
		w.Data[i] = int32(i%7*1000 - 3000)
	}
	return w
}

func TestWriteChunks(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	w := testWide(3, 6, 10)
	ranges := volume.ChunkRanges(w.Traces, 0.5, 3)
	opts := Options{VMin: DefaultVMin, VMax: DefaultVMax, Scale: 2, Depth: 4}

	written, err := WriteChunks(context.Background(), dir, "line", w, ranges, opts)
	if err != nil {
		t.Fatalf("WriteChunks failed: %v", err)
	}
	if want := len(ranges) * (3 + 4); len(written) != want {
		t.Fatalf("wrote %d images, want %d", len(written), want)
	}

	first := written[0]
	if first.Kind != KindBScan || filepath.Base(first.Path) != "line_000_ch00.png" || first.Bytes <= 0 {
		t.Fatalf("first image = %+v", first)
	}
	f, err := os.Open(first.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if cfg.Width != ranges[0].Len()*2 || cfg.Height != 6*2 {
		t.Fatalf("B-scan size = %dx%d, want %dx%d", cfg.Width, cfg.Height, ranges[0].Len()*2, 12)
	}

	last := written[len(written)-1]
	if last.Kind != KindCScan || last.Index != 3 || last.Chunk != len(ranges)-1 {
		t.Fatalf("last image = %+v", last)
	}
}

func TestWriteChunksLocked(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	lock := flock.New(filepath.Join(dir, LockName))
	ok, err := lock.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock = %v, %v", ok, err)
	}
	defer func() { _ = lock.Unlock() }()

	_, err = WriteChunks(context.Background(), dir, "line", testWide(1, 2, 2), nil, DefaultOptions())
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("err = %v, want ErrLocked", err)
	}
}

func TestWriteChunksCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	written, err := WriteChunks(ctx, t.TempDir(), "line", testWide(2, 2, 4), nil, DefaultOptions())
	if !errors.Is(err, context.Canceled) || len(written) != 0 {
		t.Fatalf("WriteChunks = %d images, %v", len(written), err)
	}
}
