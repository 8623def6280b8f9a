package rd3

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/cwbudde/algo-gpr/gpr"
)

// Header keys the pipeline reads.
const (
	KeyYOffsets         = "CH_Y_OFFSETS"
	KeyDistanceInterval = "DISTANCE INTERVAL"
	KeyChannels         = "NUMBER_OF_CH"
	KeySamples          = "SAMPLES"
	KeyLastTrace        = "LAST TRACE"
)

// HeaderInfo is the parsed .rad header. Zero values mean the field was
// missing or malformed; Warnings explains the malformed ones.
type HeaderInfo struct {
	Fields           map[string]string
	Keys             []string
	YOffsets         []float64
	DistanceInterval float64
	Channels         int
	Samples          int
	LastTrace        int
	Warnings         []string
}

// ReadHeader parses the header file at path.
func ReadHeader(path string) (HeaderInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return HeaderInfo{}, fmt.Errorf("rd3: open header: %w", err)
	}
	defer f.Close()

	info, err := ParseHeader(f)
	if err != nil {
		return HeaderInfo{}, fmt.Errorf("rd3: %s: %w", path, err)
	}
	return info, nil
}

// ParseHeader reads KEY: value lines from r until the first line without a
// colon or EOF. Invalid UTF-8 is replaced, never rejected. A header without
// a single KEY: value line is gpr.ErrFormat.
func ParseHeader(r io.Reader) (HeaderInfo, error) {
	info := HeaderInfo{Fields: make(map[string]string)}
	dec := unicode.UTF8.NewDecoder()
	br := bufio.NewReader(r)

	for {
		line, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return HeaderInfo{}, fmt.Errorf("rd3: read header: %w", readErr)
		}
		line = bytes.TrimRight(line, "\r\n")

		idx := bytes.IndexByte(line, ':')
		if idx < 0 {
			break
		}

		text, err := dec.Bytes(line)
		if err != nil {
			// The UTF-8 decoder substitutes U+FFFD and should not fail;
			// fall back to Go's own replacement if it ever does.
			text = bytes.ToValidUTF8(line, []byte("�"))
		}

		key, value, _ := strings.Cut(string(text), ":")
		value = strings.TrimSpace(value)
		value = strings.Trim(value, "'")
		value = strings.ReplaceAll(value, "'", `"`)

		if _, seen := info.Fields[key]; !seen {
			info.Keys = append(info.Keys, key)
		}
		info.Fields[key] = value

		if readErr != nil {
			break
		}
	}

	if len(info.Fields) == 0 {
		return HeaderInfo{}, fmt.Errorf("%w: rd3: header has no KEY: value lines", gpr.ErrFormat)
	}

	info.extract()
	return info, nil
}

func (h *HeaderInfo) extract() {
	if v, ok := h.Fields[KeyYOffsets]; ok && v != "" {
		parts := strings.Fields(v)
		offsets := make([]float64, 0, len(parts))
		for _, p := range parts {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				h.warnf("%s: invalid value %q", KeyYOffsets, p)
				offsets = nil
				break
			}
			offsets = append(offsets, f)
		}
		h.YOffsets = offsets
	}

	h.DistanceInterval = h.floatField(KeyDistanceInterval)
	h.Channels = h.intField(KeyChannels)
	h.Samples = h.intField(KeySamples)
	h.LastTrace = h.intField(KeyLastTrace)
}

func (h *HeaderInfo) floatField(key string) float64 {
	v, ok := h.Fields[key]
	if !ok || v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		h.warnf("%s: invalid value %q", key, v)
		return 0
	}
	return f
}

func (h *HeaderInfo) intField(key string) int {
	v, ok := h.Fields[key]
	if !ok || v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		h.warnf("%s: invalid value %q", key, v)
		return 0
	}
	return n
}

func (h *HeaderInfo) warnf(format string, args ...any) {
	h.Warnings = append(h.Warnings, fmt.Sprintf(format, args...))
}
