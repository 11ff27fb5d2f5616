package store

import "errors"

var (
	// ErrStoreUnavailable means the named sheet is missing from the workbook.
	ErrStoreUnavailable = errors.New("backing sheet not found")
	// ErrSchemaMismatch means the identifying column could not be located in
	// the live header row.
	ErrSchemaMismatch = errors.New("cui column not found in sheet headers")
	// ErrNotFound means no row matched the identifying key.
	ErrNotFound = errors.New("contract not found")
	// ErrLockTimeout means the global write lock was not acquired within the
	// configured wait.
	ErrLockTimeout = errors.New("timed out waiting for write lock")
)
