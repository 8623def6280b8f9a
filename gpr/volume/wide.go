package volume

// Wide is the 32-bit form of a volume handed to downstream consumers.
type Wide struct {
	Channels int
	Depth    int
	Traces   int
	Data     []int32
}

// Widen copies v into a 32-bit volume.
func Widen(v Volume) Wide {
	out := Wide{
		Channels: v.Channels,
		Depth:    v.Depth,
		Traces:   v.Traces,
		Data:     make([]int32, len(v.Data)),
	}
	for i, s := range v.Data {
		out.Data[i] = int32(s)
	}
	return out
}

// Index returns the flat index of (c, d, t).
func (w Wide) Index(c, d, t int) int {
	return (c*w.Depth+d)*w.Traces + t
}

// At returns the sample at (c, d, t).
func (w Wide) At(c, d, t int) int32 {
	return w.Data[w.Index(c, d, t)]
}

// Crop returns traces [start, start+length) of w, clamped.
func (w Wide) Crop(start, length int) Wide {
	if start < 0 {
		start = 0
	}
	if start > w.Traces {
		start = w.Traces
	}
	if length < 0 {
		length = 0
	}
	end := start + length
	if end > w.Traces {
		end = w.Traces
	}

	out := Wide{
		Channels: w.Channels,
		Depth:    w.Depth,
		Traces:   end - start,
		Data:     make([]int32, 0, w.Channels*w.Depth*(end-start)),
	}
	for c := 0; c < w.Channels; c++ {
		for d := 0; d < w.Depth; d++ {
			row := (c*w.Depth + d) * w.Traces
			out.Data = append(out.Data, w.Data[row+start:row+end]...)
		}
	}
	return out
}

// DepthSlice returns the (depth, distance) plane of channel c as rows.
func (w Wide) DepthSlice(c int) [][]int32 {
	rows := make([][]int32, w.Depth)
	for d := range rows {
		start := (c*w.Depth + d) * w.Traces
		rows[d] = w.Data[start : start+w.Traces]
	}
	return rows
}

// ChannelSlice returns the (channel, distance) plane at depth d as rows.
func (w Wide) ChannelSlice(d int) [][]int32 {
	rows := make([][]int32, w.Channels)
	for c := range rows {
		start := (c*w.Depth + d) * w.Traces
		rows[c] = w.Data[start : start+w.Traces]
	}
	return rows
}
