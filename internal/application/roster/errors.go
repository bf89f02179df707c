package roster

import "errors"

var (
	ErrInvalidImportSource = errors.New("invalid import source")
	ErrReadImportSource    = errors.New("failed to read import source")
	ErrImportRun           = errors.New("import run failed")
	ErrRunLocked           = errors.New("another import run is in progress")
	ErrInvalidImportRunID  = errors.New("invalid import run id")
	ErrImportRunNotFound   = errors.New("import run not found")
	ErrGetImportRun        = errors.New("failed to get import run")

	// ErrBatchFailed is returned from the unit of work when any row failed, so
	// that every entity write of the run is rolled back.
	ErrBatchFailed = errors.New("one or more rows failed")
)
