// Package gpr holds the pieces shared by every stage of the ground-penetrating
// radar processing pipeline: the error taxonomy and the Event record used to
// report conditions that were recovered without aborting a run.
//
// The processing stages live in sub-packages:
//
//   - rd3: acquisition file decoding (.rd3 samples, .rad headers)
//   - volume: the (channel, depth, distance) volume and its reshaping helpers
//   - align: amplitude, ground and channel alignment
//   - filter: the individual numeric filters
//   - chain: the configuration-driven filter pipeline
//   - pipeline: the end-to-end entry point used by orchestrators
//
// # Errors
//
// Only [ErrFormat] aborts an acquisition. [ErrConfig], [ErrNumericDegeneracy]
// and [ErrFeatureNotFound] are recovered locally and surface as [Event] values
// alongside the result.
package gpr
