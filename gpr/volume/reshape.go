package volume

import "fmt"

// Reshape converts a trace-major sample stream into a (channel, depth, trace)
// volume. Non-positive channels or depthBins select the defaults. Samples
// past the last complete trace are dropped.
func Reshape(raw []int16, channels, depthBins int) (Volume, error) {
	if channels <= 0 {
		channels = DefaultChannels
	}
	if depthBins <= 0 {
		depthBins = DefaultDepthBins
	}

	traceSize := channels * depthBins
	traces := len(raw) / traceSize

	out, err := New(channels, depthBins, traces)
	if err != nil {
		return Volume{}, fmt.Errorf("volume: reshape: %w", err)
	}

	for t := 0; t < traces; t++ {
		trace := raw[t*traceSize : (t+1)*traceSize]
		for c := 0; c < channels; c++ {
			column := trace[c*depthBins : (c+1)*depthBins]
			base := c * depthBins * traces
			for d, s := range column {
				out.Data[base+d*traces+t] = s
			}
		}
	}

	return out, nil
}

// Flatten is the inverse of Reshape: it emits samples trace-major,
// channel-minor, depth-innermost.
func Flatten(v Volume) []int16 {
	out := make([]int16, 0, len(v.Data))
	for t := 0; t < v.Traces; t++ {
		for c := 0; c < v.Channels; c++ {
			for d := 0; d < v.Depth; d++ {
				out = append(out, v.At(c, d, t))
			}
		}
	}
	return out
}
