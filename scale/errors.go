package scale

import "errors"

var (
	// ErrZeroVariance is returned when a scaling transform is fitted on a column
	// with a single distinct value.
	ErrZeroVariance = errors.New("zero variance")

	// ErrEmptyColumn is returned when a transform is fitted on no values.
	ErrEmptyColumn = errors.New("empty column")

	// ErrUnknownStrategy is returned for an unsupported continuous strategy or binary mode.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrCorruptState is returned when decoding malformed transform state.
	ErrCorruptState = errors.New("corrupt transform state")
)
