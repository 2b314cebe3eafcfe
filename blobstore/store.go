package blobstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrInvalidName is returned for empty, absolute or escaping blob names.
var ErrInvalidName = errors.New("invalid blob name")

// BlobStore stores whole blobs by name.
type BlobStore interface {
	// Put writes a blob, replacing any existing blob with the same name.
	// Readers never observe a partially written blob.
	Put(ctx context.Context, name string, data []byte) error

	// Get returns the full contents of a blob.
	Get(ctx context.Context, name string) ([]byte, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the sorted names of all blobs starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// ValidateName checks that name is a clean relative slash-separated path.
func ValidateName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || path.Clean(name) != name ||
		name == ".." || strings.HasPrefix(name, "../") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Join joins name elements into a blob name, ignoring empty elements.
func Join(elem ...string) string {
	return strings.TrimPrefix(path.Join(elem...), "/")
}
