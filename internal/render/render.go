package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Default display window and upscale factor.
const (
	DefaultVMin  = -3000.0
	DefaultVMax  = 3000.0
	DefaultScale = 4
)

// ErrInvalidWindow is returned when vmax does not exceed vmin.
var ErrInvalidWindow = errors.New("render: vmax must be greater than vmin")

// Normalize clips rows to [vmin, vmax] and maps them linearly onto 0..255,
// truncating toward zero. Rows must share one length.
func Normalize(rows [][]int32, vmin, vmax float64) (*image.Gray, error) {
	if !(vmax > vmin) || math.IsInf(vmax-vmin, 0) {
		return nil, fmt.Errorf("%w: vmin=%g vmax=%g", ErrInvalidWindow, vmin, vmax)
	}

	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	img := image.NewGray(image.Rect(0, 0, width, len(rows)))
	span := vmax - vmin
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("render: row %d has %d samples, want %d", y, len(row), width)
		}
		line := img.Pix[y*img.Stride : y*img.Stride+width]
		for x, s := range row {
			v := min(max(float64(s), vmin), vmax)
			line[x] = uint8((v - vmin) / span * 255)
		}
	}
	return img, nil
}

// Upscale enlarges img by factor in both directions. A factor of 1 or less
// returns img unchanged.
func Upscale(img *image.Gray, factor int) *image.Gray {
	if factor <= 1 || img.Bounds().Empty() {
		return img
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
