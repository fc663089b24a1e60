package library

import "errors"

var (
	// ErrNotFound indicates the requested entity doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrConstraint indicates a foreign key or check constraint violation.
	ErrConstraint = errors.New("constraint violation")

	// ErrPathTraversal indicates a destination path would escape the
	// library root.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrDestinationExists indicates the destination file already exists.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrWriteFailed indicates a file could not be written to the library.
	ErrWriteFailed = errors.New("failed to write file")
)
