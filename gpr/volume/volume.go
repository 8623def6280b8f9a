package volume

import (
	"errors"
	"fmt"
)

const (
	// DefaultChannels is the receiver count of the reference antenna array.
	DefaultChannels = 25
	// DefaultDepthBins is the fixed number of depth samples per trace.
	DefaultDepthBins = 256
)

// Errors returned by volume constructors.
var (
	ErrInvalidShape   = errors.New("volume: invalid shape")
	ErrLengthMismatch = errors.New("volume: data length does not match shape")
)

// Volume is a (channel, depth, distance) block of 16-bit samples.
// Data is laid out as (c*Depth+d)*Traces+t.
type Volume struct {
	Channels int
	Depth    int
	Traces   int
	Data     []int16
}

// New allocates a zeroed volume.
func New(channels, depth, traces int) (Volume, error) {
	if channels <= 0 || depth <= 0 || traces < 0 {
		return Volume{}, fmt.Errorf("%w: %dx%dx%d", ErrInvalidShape, channels, depth, traces)
	}
	return Volume{
		Channels: channels,
		Depth:    depth,
		Traces:   traces,
		Data:     make([]int16, channels*depth*traces),
	}, nil
}

// FromData wraps data with the given shape. The slice is not copied.
func FromData(channels, depth, traces int, data []int16) (Volume, error) {
	if channels <= 0 || depth <= 0 || traces < 0 {
		return Volume{}, fmt.Errorf("%w: %dx%dx%d", ErrInvalidShape, channels, depth, traces)
	}
	if len(data) != channels*depth*traces {
		return Volume{}, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(data), channels*depth*traces)
	}
	return Volume{Channels: channels, Depth: depth, Traces: traces, Data: data}, nil
}

// Like returns a zeroed volume with the same shape as v.
func Like(v Volume) Volume {
	return Volume{
		Channels: v.Channels,
		Depth:    v.Depth,
		Traces:   v.Traces,
		Data:     make([]int16, len(v.Data)),
	}
}

// Clone returns a deep copy of v.
func (v Volume) Clone() Volume {
	out := Like(v)
	copy(out.Data, v.Data)
	return out
}

// Len returns the number of samples.
func (v Volume) Len() int {
	return len(v.Data)
}

// Shape returns (channels, depth, traces).
func (v Volume) Shape() (int, int, int) {
	return v.Channels, v.Depth, v.Traces
}

// Index returns the flat index of (c, d, t).
func (v Volume) Index(c, d, t int) int {
	return (c*v.Depth+d)*v.Traces + t
}

// At returns the sample at (c, d, t).
func (v Volume) At(c, d, t int) int16 {
	return v.Data[v.Index(c, d, t)]
}

// Set stores value at (c, d, t).
func (v Volume) Set(c, d, t int, value int16) {
	v.Data[v.Index(c, d, t)] = value
}

// Row returns the distance row for (c, d). The slice aliases v.Data.
func (v Volume) Row(c, d int) []int16 {
	start := (c*v.Depth + d) * v.Traces
	return v.Data[start : start+v.Traces]
}

// ChannelData returns the Depth*Traces block of channel c. The slice aliases v.Data.
func (v Volume) ChannelData(c int) []int16 {
	size := v.Depth * v.Traces
	return v.Data[c*size : (c+1)*size]
}

// SameShape reports whether a and b have identical geometry.
func SameShape(a, b Volume) bool {
	return a.Channels == b.Channels && a.Depth == b.Depth && a.Traces == b.Traces
}

// Equal reports whether a and b have the same shape and samples.
func Equal(a, b Volume) bool {
	if !SameShape(a, b) || len(a.Data) != len(b.Data) {
		return false
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			return false
		}
	}
	return true
}
