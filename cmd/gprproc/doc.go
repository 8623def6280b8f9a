// Command gprproc runs the ground-penetrating radar pipeline over .rd3/.rad
// acquisitions and renders the filtered volumes as PNG slices.
//
// Usage:
//
//	gprproc [--config path] [--log-level level] <command>
//
// Examples:
//
//	gprproc process /data/survey line01 line02
//	gprproc inspect /data/survey line01
//	gprproc filters --format toml > filters.toml
//	gprproc history --limit 5
//	gprproc config init
package main
