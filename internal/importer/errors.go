package importer

import "errors"

var (
	// ErrDrainInProgress indicates another import is already running on
	// this importer; the new call is a no-op.
	ErrDrainInProgress = errors.New("import already in progress")

	// ErrNothingToImport indicates the operation had no importable sources.
	ErrNothingToImport = errors.New("nothing to import")

	// ErrItemNotFound indicates no queue item carries the given id.
	ErrItemNotFound = errors.New("queue item not found")

	// ErrItemActive indicates the item is mid-flight and cannot be removed.
	ErrItemActive = errors.New("queue item is being processed")
)
