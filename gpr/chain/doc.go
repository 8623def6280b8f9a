// Package chain applies an ordered, configurable table of filters to a
// volume.
//
// A [Table] lists filter rows with a kind, an enabled flag, an execution
// order and numeric parameters. Tables load from TOML:
//
//	[[filter]]
//	kind = "gain"
//	order = 2
//	[filter.params]
//	inflection_point = 127
//
// or from the legacy filterCollect.csv layout. [Apply] runs the enabled rows
// in ascending order through a [Registry] of runtimes. Recovered conditions,
// unknown kinds and failing filters are reported as [gpr.Event] values; a
// failing filter leaves the volume as it was and the chain continues.
package chain
