// Package align applies the three per-channel corrections that run before
// filtering: amplitude equalisation, ground alignment and lateral channel
// alignment.
//
// Amplitude and ground alignment both start from a channel's mean depth
// profile and locate the ground reflection as a negative lobe followed by a
// positive one (see [ScanPeaks]). A channel where the scan fails is passed
// through unchanged and reported as a [gpr.ErrFeatureNotFound] event.
//
// Channel alignment delays each channel along the distance axis by its
// lateral antenna offset, converted to traces with the header's distance
// interval.
package align
