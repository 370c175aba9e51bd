// Package repository contains the MySQL data access layer.  Each
// repository wraps a *sql.DB and exposes plain per-statement methods;
// the few multi-statement flows (hold acquisition, genre linking)
// manage their transactions internally.  All timestamps are stored
// and compared in UTC.
package repository

import "errors"

// Sentinel errors shared across repositories.  Handlers translate
// them into HTTP status codes.
var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an insert or update collides with
	// existing state (duplicate name, dependent rows).
	ErrConflict = errors.New("conflict")
)

const dbTime = "2006-01-02 15:04:05"
