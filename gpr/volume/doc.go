// Package volume provides the three-dimensional GPR volume and the geometric
// helpers around it.
//
// A [Volume] is indexed (channel, depth, distance). Axis 0 is the receiver
// channel, axis 1 the depth sample and axis 2 the along-track trace index.
// Samples are signed 16-bit; [Wide] is the 32-bit form produced at the very
// end of the filter chain.
//
// # Reshaping
//
// Acquisition files store samples trace-major: every trace holds one depth
// column per channel. [Reshape] reinterprets that flat stream and transposes
// it so that the distance axis is innermost:
//
//	raw, _ := rd3.ReadTrace(path)
//	v, err := volume.Reshape(raw, 25, 256)
//
// [Flatten] is the exact inverse.
//
// # Narrowing
//
// Filters compute in float64 and hand back 16-bit data. [Narrow] truncates
// toward zero and wraps on overflow, matching a two's-complement int16 cast.
package volume
