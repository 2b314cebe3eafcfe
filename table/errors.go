package table

import "errors"

var (
	// ErrLengthMismatch is returned when a column length differs from the table row count.
	ErrLengthMismatch = errors.New("column length mismatch")

	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrColumnNotFound is returned when a requested column does not exist.
	ErrColumnNotFound = errors.New("column not found")

	// ErrMissingReserved is returned when a caller contract requires a reserved column that is absent.
	ErrMissingReserved = errors.New("missing reserved column")
)
