// Package rd3 reads GPR acquisition files.
//
// An acquisition is a set of files sharing a base name: the raw samples
// (.rd3, signed 16-bit little-endian, no header), a text header (.rad) and an
// optional road-surface bitmap (.rst) that this package only locates.
//
//	acq := rd3.Acquisition{Dir: "/data/SBR_013", Base: "SBR_013"}
//	data, err := rd3.Load(acq)
package rd3
