package compress

import (
	"errors"
	"fmt"
	"strings"
)

// Type identifies a compression algorithm. The value is persisted in blob headers.
type Type uint8

const (
	// None stores data uncompressed.
	None Type = 0
	// LZ4 uses LZ4 block compression (fast).
	LZ4 Type = 1
	// Zstd uses Zstandard block compression (better ratio).
	Zstd Type = 2
	// S2 uses S2, the Snappy-compatible extension from klauspost/compress.
	S2 Type = 3
)

// ErrUnknownType is returned for an unsupported compression type.
var ErrUnknownType = errors.New("unknown compression type")

// ErrSizeMismatch is returned when decompressed data does not have the expected size.
var ErrSizeMismatch = errors.New("decompressed size mismatch")

// String returns the string representation of the compression type.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	default:
		return "unknown"
	}
}

// ParseType returns the compression type with the given name.
func ParseType(s string) (Type, error) {
	for _, t := range []Type{None, LZ4, Zstd, S2} {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Codec compresses and decompresses whole blocks.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Compress returns the compressed form of data. An empty result means the
	// data is incompressible and should be stored as-is.
	Compress(data []byte) ([]byte, error)

	// Decompress restores a block whose uncompressed length is size.
	Decompress(data []byte, size int) ([]byte, error)

	// Type returns the persisted algorithm identifier.
	Type() Type
}

// New returns the codec for t.
func New(t Type) (Codec, error) {
	switch t {
	case None:
		return NoOp{}, nil
	case LZ4:
		return LZ4Compressor{}, nil
	case Zstd:
		return ZstdCompressor{}, nil
	case S2:
		return S2Compressor{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
}

func checkSize(out []byte, size int) ([]byte, error) {
	if len(out) != size {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, len(out), size)
	}
	return out, nil
}
