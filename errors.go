package featquant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/featquant/blobstore"
	"github.com/hupe1980/featquant/compress"
	"github.com/hupe1980/featquant/group"
	"github.com/hupe1980/featquant/persistence"
	"github.com/hupe1980/featquant/quantization"
	"github.com/hupe1980/featquant/scale"
	"github.com/hupe1980/featquant/table"
)

var (
	// ErrInvalidInput is returned for empty tables, tables without numeric
	// columns and other malformed input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSchemaMismatch is returned when an inference table lacks frozen feature columns.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrNotFitted is returned by Transform and Save on an unfit pipeline.
	ErrNotFitted = errors.New("pipeline not fitted")

	// ErrAlreadyFitted is returned by a second Fit on the same pipeline.
	ErrAlreadyFitted = errors.New("pipeline already fitted")

	// ErrNotFound is returned by Load when an artifact is missing.
	ErrNotFound = errors.New("not found")

	// ErrConfiguration is returned for invalid options or degenerate fits.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrCorrupted is returned by Load when persisted state fails validation.
	ErrCorrupted = errors.New("corrupted pipeline state")
)

// SchemaMismatchError lists the frozen feature columns missing from an inference table.
// It matches ErrSchemaMismatch with errors.Is.
type SchemaMismatchError struct {
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: missing feature columns [%s]", strings.Join(e.Missing, ", "))
}

// Is reports whether target is ErrSchemaMismatch.
func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchemaMismatch }

var kinds = []error{
	ErrInvalidInput, ErrSchemaMismatch, ErrNotFitted, ErrAlreadyFitted,
	ErrNotFound, ErrConfiguration, ErrCorrupted,
}

// translateError maps sub-package errors onto the root error kinds.
// Both the kind and the cause match errors.Is on the result.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return err
		}
	}

	switch {
	case errors.Is(err, blobstore.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)

	case errors.Is(err, group.ErrEmptyTable),
		errors.Is(err, group.ErrNoNumericColumns),
		errors.Is(err, table.ErrLengthMismatch),
		errors.Is(err, table.ErrDuplicateColumn),
		errors.Is(err, table.ErrMissingReserved),
		errors.Is(err, scale.ErrEmptyColumn),
		errors.Is(err, quantization.ErrEmptyMatrix),
		errors.Is(err, quantization.ErrNonNumeric):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)

	case errors.Is(err, scale.ErrZeroVariance),
		errors.Is(err, scale.ErrUnknownStrategy),
		errors.Is(err, quantization.ErrInvalidBins),
		errors.Is(err, compress.ErrUnknownType):
		return fmt.Errorf("%w: %w", ErrConfiguration, err)

	case errors.Is(err, quantization.ErrNotFitted):
		return fmt.Errorf("%w: %w", ErrNotFitted, err)

	case errors.Is(err, persistence.ErrInvalidMagic),
		errors.Is(err, persistence.ErrInvalidVersion),
		errors.Is(err, persistence.ErrTruncated),
		errors.Is(err, persistence.ErrInvalidLength),
		persistence.IsChecksumMismatch(err),
		errors.Is(err, compress.ErrSizeMismatch),
		errors.Is(err, scale.ErrCorruptState),
		errors.Is(err, quantization.ErrCorrupted),
		errors.Is(err, group.ErrUnknownGroup):
		return fmt.Errorf("%w: %w", ErrCorrupted, err)
	}

	return err
}
