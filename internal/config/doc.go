// Package config loads gprproc's TOML configuration.
//
// Load starts from Default, overlays the file when it exists, then
// normalises and validates the result. CreateSample writes the annotated
// sample configuration.
package config
