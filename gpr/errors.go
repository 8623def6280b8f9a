package gpr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Errors describing the pipeline's failure taxonomy.
var (
	// ErrFormat marks a malformed or truncated acquisition file. Fatal for that acquisition.
	ErrFormat = errors.New("gpr: format error")
	// ErrConfig marks an out-of-range or conflicting parameter. A default is substituted.
	ErrConfig = errors.New("gpr: config error")
	// ErrNumericDegeneracy marks zero-variance or non-finite intermediate results.
	ErrNumericDegeneracy = errors.New("gpr: numeric degeneracy")
	// ErrFeatureNotFound marks a channel whose peak scan found no usable feature.
	ErrFeatureNotFound = errors.New("gpr: alignment feature not found")
)

// Event records a condition that was recovered without aborting the run.
type Event struct {
	// Stage names the stage or filter that raised the event (e.g. "ground", "las").
	Stage string
	// Channel is the affected channel, or -1 when the event is volume-wide.
	Channel int
	// Err wraps one of the package sentinels.
	Err error
}

// NewEvent builds an Event wrapping sentinel with a formatted detail message.
func NewEvent(stage string, channel int, sentinel error, format string, args ...any) Event {
	return Event{
		Stage:   stage,
		Channel: channel,
		Err:     fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}

// String renders the event for logs and journals.
func (e Event) String() string {
	msg := "<nil>"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Channel < 0 {
		return e.Stage + ": " + msg
	}
	return fmt.Sprintf("%s[ch%d]: %s", e.Stage, e.Channel, msg)
}

// Recoverable reports whether err belongs to the recoverable part of the taxonomy.
func Recoverable(err error) bool {
	return errors.Is(err, ErrConfig) ||
		errors.Is(err, ErrNumericDegeneracy) ||
		errors.Is(err, ErrFeatureNotFound)
}

// Attrs returns the event as slog attributes.
func (e Event) Attrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("stage", e.Stage)}
	if e.Channel >= 0 {
		attrs = append(attrs, slog.Int("channel", e.Channel))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return attrs
}

// Log writes every event to logger at WARN level.
func Log(ctx context.Context, logger *slog.Logger, events []Event) {
	if logger == nil {
		return
	}
	for _, ev := range events {
		logger.LogAttrs(ctx, slog.LevelWarn, "recovered condition", ev.Attrs()...)
	}
}
