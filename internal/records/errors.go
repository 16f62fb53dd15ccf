package records

import "errors"

// ErrNotFound indicates a record lookup by id matched nothing.
var ErrNotFound = errors.New("record not found")

// ErrInvalidPath indicates an enqueue attempt with an empty file reference.
var ErrInvalidPath = errors.New("file path is required")
