package gpr

import (
	"errors"
	"strings"
	"testing"
)

func TestNewEventWrapsSentinel(t *testing.T) {
	t.Parallel()

	evt := NewEvent("ground", 3, ErrFeatureNotFound, "no peak below %d", -1000)
	if !errors.Is(evt.Err, ErrFeatureNotFound) {
		t.Fatalf("event error %v does not wrap ErrFeatureNotFound", evt.Err)
	}

	s := evt.String()
	if !strings.HasPrefix(s, "ground[ch3]: ") {
		t.Fatalf("String() = %q, want ground[ch3] prefix", s)
	}
	if !strings.Contains(s, "no peak below -1000") {
		t.Fatalf("String() = %q, want detail message", s)
	}
}

func TestEventStringVolumeWide(t *testing.T) {
	t.Parallel()

	evt := NewEvent("las", -1, ErrNumericDegeneracy, "non-finite output")
	if got := evt.String(); !strings.HasPrefix(got, "las: ") {
		t.Fatalf("String() = %q, want las prefix", got)
	}
}

func TestRecoverable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "config", err: ErrConfig, want: true},
		{name: "degeneracy", err: ErrNumericDegeneracy, want: true},
		{name: "feature", err: ErrFeatureNotFound, want: true},
		{name: "format", err: ErrFormat, want: false},
		{name: "other", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Recoverable(tt.err); got != tt.want {
				t.Fatalf("Recoverable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestEventAttrs(t *testing.T) {
	t.Parallel()

	attrs := NewEvent("ground", 2, ErrFeatureNotFound, "x").Attrs()
	if len(attrs) != 3 || attrs[1].Key != "channel" || attrs[1].Value.Int64() != 2 {
		t.Fatalf("Attrs() = %v", attrs)
	}

	wide := NewEvent("las", -1, ErrNumericDegeneracy, "x").Attrs()
	if len(wide) != 2 {
		t.Fatalf("volume-wide Attrs() = %v, want no channel attr", wide)
	}
}
