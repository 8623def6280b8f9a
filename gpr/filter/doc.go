// Package filter implements the numeric filters applied to aligned volumes.
//
// Every filter is pure: it takes a [volume.Volume] and a typed parameter set
// and returns a new volume, leaving its input untouched. Results are
// computed in float64 and narrowed back to 16 bits with [volume.Narrow]
// (truncate, wrap) or, where the filter models a saturating image operation,
// [volume.Saturate].
//
// Parameters arrive from configuration tables as loosely typed [Params].
// The Resolve functions turn them into typed parameter sets, substituting
// documented defaults for absent keys and reporting out-of-range values as
// [gpr.ErrConfig] events:
//
//	p, events := filter.ResolveLas(params)
//	out, err := filter.Las(v, p, filter.WithWorkers(4))
//
// A filter that produces non-finite intermediates returns an error wrapping
// [gpr.ErrNumericDegeneracy]; callers keep the input in that case.
package filter
