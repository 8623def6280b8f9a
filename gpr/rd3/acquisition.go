package rd3

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-gpr/gpr"
)

// File extensions of an acquisition set.
const (
	ExtTrace   = ".rd3"
	ExtHeader  = ".rad"
	ExtSurface = ".rst"
)

// DefaultDepthBins is assumed when the header does not declare SAMPLES.
const DefaultDepthBins = 256

// ErrMissingFile is returned by Validate when a required file is absent.
var ErrMissingFile = errors.New("rd3: missing acquisition file")

// Acquisition locates the files of one acquisition.
type Acquisition struct {
	Dir  string
	Base string
}

// Path returns the path of the file with extension ext.
func (a Acquisition) Path(ext string) string {
	return filepath.Join(a.Dir, a.Base+ext)
}

// TracePath returns the .rd3 path.
func (a Acquisition) TracePath() string { return a.Path(ExtTrace) }

// HeaderPath returns the .rad path.
func (a Acquisition) HeaderPath() string { return a.Path(ExtHeader) }

// SurfacePath returns the .rst path.
func (a Acquisition) SurfacePath() string { return a.Path(ExtSurface) }

// HasSurface reports whether the road-surface bitmap exists.
func (a Acquisition) HasSurface() bool {
	st, err := os.Stat(a.SurfacePath())
	return err == nil && !st.IsDir()
}

// Validate checks that the required .rd3 and .rad files exist.
func (a Acquisition) Validate() error {
	if strings.TrimSpace(a.Base) == "" {
		return fmt.Errorf("%w: empty base name", ErrMissingFile)
	}

	var missing []string
	for _, ext := range []string{ExtTrace, ExtHeader} {
		st, err := os.Stat(a.Path(ext))
		if err != nil || st.IsDir() {
			missing = append(missing, a.Base+ext)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFile, strings.Join(missing, ", "))
	}
	return nil
}

// Data is a loaded acquisition.
type Data struct {
	Trace  RawTrace
	Header HeaderInfo
}

// Load validates acq and reads its samples and header. When the header
// declares LAST TRACE and NUMBER_OF_CH, a sample stream shorter than that
// declaration is gpr.ErrFormat.
func Load(acq Acquisition) (Data, error) {
	if err := acq.Validate(); err != nil {
		return Data{}, err
	}

	header, err := ReadHeader(acq.HeaderPath())
	if err != nil {
		return Data{}, err
	}

	trace, err := ReadTrace(acq.TracePath())
	if err != nil {
		return Data{}, err
	}

	if want := DeclaredSamples(header); want > 0 && len(trace) < want {
		return Data{}, fmt.Errorf("%w: rd3: %s holds %d samples, header declares %d",
			gpr.ErrFormat, acq.TracePath(), len(trace), want)
	}

	return Data{Trace: trace, Header: header}, nil
}

// DeclaredSamples returns LAST TRACE × NUMBER_OF_CH × SAMPLES, or 0 when the
// header does not declare a trace or channel count.
func DeclaredSamples(h HeaderInfo) int {
	if h.LastTrace <= 0 || h.Channels <= 0 {
		return 0
	}
	depth := h.Samples
	if depth <= 0 {
		depth = DefaultDepthBins
	}
	return h.LastTrace * h.Channels * depth
}
