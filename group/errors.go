package group

import "errors"

var (
	// ErrEmptyTable is returned when the table has no rows or no columns.
	ErrEmptyTable = errors.New("empty table")

	// ErrNoNumericColumns is returned when the table has no numeric feature columns.
	ErrNoNumericColumns = errors.New("no numeric columns to classify")

	// ErrUnknownGroup is returned when parsing an unknown group name.
	ErrUnknownGroup = errors.New("unknown group")
)
