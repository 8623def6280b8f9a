package rd3

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/cwbudde/algo-gpr/gpr"
)

// RawTrace is the flat sample stream of one acquisition.
type RawTrace []int16

// ReadTrace reads the whole file at path as little-endian int16 samples.
// An odd byte count is reported as gpr.ErrFormat.
func ReadTrace(path string) (RawTrace, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rd3: read trace: %w", err)
	}
	return DecodeTrace(b)
}

// DecodeTrace converts raw bytes into samples.
func DecodeTrace(b []byte) (RawTrace, error) {
	if len(b)%2 != 0 {
		return nil, fmt.Errorf("%w: rd3: odd byte count %d", gpr.ErrFormat, len(b))
	}
	out := make(RawTrace, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return out, nil
}
