package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrPermissionDenied indicates the user's role does not allow the operation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidImport indicates an import payload missing required fields.
	ErrInvalidImport = errors.New("invalid import: project must have a name and at least one cycle")
)
