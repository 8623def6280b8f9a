// Package render turns filtered volumes into grayscale PNG images.
//
// Every trace chunk yields one B-scan per channel (depth × distance) and one
// C-scan per depth level (channel × distance). Samples are clipped to
// [VMin, VMax], mapped linearly to 0..255 and upscaled with Catmull-Rom
// interpolation.
package render
