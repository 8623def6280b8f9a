package volume

import "math"

// DefaultChunkMeters is the along-track length of one imaging segment.
const DefaultChunkMeters = 200.0

// Range is a half-open trace interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns End-Start.
func (r Range) Len() int {
	return r.End - r.Start
}

// Crop returns traces [start, start+length) of v, clamped to the volume.
// The result does not alias v.
func Crop(v Volume, start, length int) Volume {
	if start < 0 {
		start = 0
	}
	if start > v.Traces {
		start = v.Traces
	}
	if length < 0 {
		length = 0
	}
	end := start + length
	if end > v.Traces {
		end = v.Traces
	}

	out := Volume{
		Channels: v.Channels,
		Depth:    v.Depth,
		Traces:   end - start,
		Data:     make([]int16, v.Channels*v.Depth*(end-start)),
	}
	for c := 0; c < v.Channels; c++ {
		for d := 0; d < v.Depth; d++ {
			copy(out.Row(c, d), v.Row(c, d)[start:end])
		}
	}
	return out
}

// ChunkRanges splits traces into consecutive segments of meters length given
// the distance interval in meters per trace. A non-positive interval or a
// segment shorter than one trace yields a single range covering everything.
func ChunkRanges(traces int, interval, meters float64) []Range {
	if traces <= 0 {
		return nil
	}
	if meters <= 0 {
		meters = DefaultChunkMeters
	}

	size := 0
	if interval > 0 && !math.IsInf(interval, 0) && !math.IsNaN(interval) {
		size = int(meters / interval)
	}
	if size <= 0 || size >= traces {
		return []Range{{Start: 0, End: traces}}
	}

	ranges := make([]Range, 0, traces/size+1)
	for start := 0; start < traces; start += size {
		end := start + size
		if end > traces {
			end = traces
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	return ranges
}

// Chunk crops v once per range.
func Chunk(v Volume, ranges []Range) []Volume {
	out := make([]Volume, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, Crop(v, r.Start, r.Len()))
	}
	return out
}
