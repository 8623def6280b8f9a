package conv

import "fmt"

// Correlator slides a fixed kernel across rows, producing
// out[i] = sum_j kernel[j] * x[i+j-anchor] with samples outside the row
// supplied by the border policy. Output has the input's length.
//
// A Correlator using the FFT path keeps scratch buffers and must not be
// shared between goroutines.
type Correlator struct {
	reversed []float64
	anchor   int
	border   Border
	oa       *OverlapAdd
}

// NewCorrelator builds a correlator for kernel anchored at anchor.
func NewCorrelator(kernel []float64, anchor int, border Border) (*Correlator, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if anchor < 0 || anchor >= len(kernel) {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidAnchor, anchor, len(kernel))
	}

	reversed := make([]float64, len(kernel))
	for i := range kernel {
		reversed[i] = kernel[len(kernel)-1-i]
	}

	c := &Correlator{reversed: reversed, anchor: anchor, border: border}
	if len(kernel) > directThreshold {
		oa, err := NewOverlapAdd(reversed, 0)
		if err != nil {
			return nil, err
		}
		c.oa = oa
	}
	return c, nil
}

// Process correlates x with the kernel.
func (c *Correlator) Process(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}

	m := len(c.reversed)
	padded := Pad(x, c.anchor, m-1-c.anchor, c.border)

	var full []float64
	if c.oa != nil {
		var err error
		full, err = c.oa.Process(padded)
		if err != nil {
			return nil, err
		}
	} else {
		full = make([]float64, len(padded)+m-1)
		DirectTo(full, padded, c.reversed)
	}

	return trimToMode(full, len(padded), m, ModeValid), nil
}

// Correlate is a one-shot Correlator.Process.
func Correlate(x, kernel []float64, anchor int, border Border) ([]float64, error) {
	c, err := NewCorrelator(kernel, anchor, border)
	if err != nil {
		return nil, err
	}
	return c.Process(x)
}
