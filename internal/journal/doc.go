// Package journal persists a history of gprproc runs.
//
// Each processed acquisition is stored as one row in the runs table with
// its recovered events in the events table. The database uses SQLite in
// WAL mode so that the history command can read while a batch is writing.
package journal
