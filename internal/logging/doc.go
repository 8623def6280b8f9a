// Package logging assembles the slog loggers used by the CLI and handed to
// the processing packages.
//
// It owns the console and JSON handlers and the level and output plumbing.
// Library packages never log through a global; they accept a *slog.Logger
// and fall back to [NewNop].
package logging
