package conv

// Border selects how samples outside a row are synthesised.
type Border int

const (
	// BorderZero treats out-of-range samples as 0.
	BorderZero Border = iota
	// BorderReflect101 mirrors around the edge sample without repeating it
	// (gfedcb|abcdefgh|gfedcba).
	BorderReflect101
	// BorderReplicate repeats the edge sample (aaaaaa|abcdefgh|hhhhhhh).
	BorderReplicate
)

// String returns the border name.
func (b Border) String() string {
	switch b {
	case BorderZero:
		return "zero"
	case BorderReflect101:
		return "reflect101"
	case BorderReplicate:
		return "replicate"
	default:
		return "unknown"
	}
}

// Index maps p into [0, n) under border b. It returns -1 for BorderZero
// positions outside the row.
func (b Border) Index(p, n int) int {
	if p >= 0 && p < n {
		return p
	}
	switch b {
	case BorderReplicate:
		if p < 0 {
			return 0
		}
		return n - 1
	case BorderReflect101:
		if n == 1 {
			return 0
		}
		for p < 0 || p >= n {
			if p < 0 {
				p = -p
			} else {
				p = 2*(n-1) - p
			}
		}
		return p
	default:
		return -1
	}
}

// Pad returns x extended by before and after samples under border b.
func Pad(x []float64, before, after int, b Border) []float64 {
	n := len(x)
	out := make([]float64, before+n+after)
	copy(out[before:], x)
	if n == 0 {
		return out
	}
	for i := 0; i < before; i++ {
		if j := b.Index(i-before, n); j >= 0 {
			out[i] = x[j]
		}
	}
	for i := 0; i < after; i++ {
		if j := b.Index(n+i, n); j >= 0 {
			out[before+n+i] = x[j]
		}
	}
	return out
}
