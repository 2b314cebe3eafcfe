package persistence

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/featquant/compress"
	"github.com/hupe1980/featquant/internal/hash"
)

const (
	// MagicNumber identifies pipeline state blobs (ASCII: "FQS1").
	MagicNumber uint32 = 0x46515331
	// Version is the current state format version.
	Version uint16 = 1
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrTruncated      = errors.New("truncated data")
	ErrInvalidLength  = errors.New("invalid length")
)

// Header precedes every state blob.
type Header struct {
	Magic            uint32
	Version          uint16
	Compression      compress.Type
	Reserved         uint8
	UncompressedSize uint64
	CompressedSize   uint64
	Checksum         uint32
	Fingerprint      uint64
}

// HeaderSize is the encoded size of Header in bytes.
var HeaderSize = binary.Size(Header{})

// Seal wraps payload in a header and compresses it with c.
// The payload is stored uncompressed when compression does not shrink it.
func Seal(payload []byte, fingerprint uint64, c compress.Codec) ([]byte, error) {
	body := payload
	typ := compress.None

	if c != nil && c.Type() != compress.None && len(payload) > 0 {
		packed, err := c.Compress(payload)
		if err != nil {
			return nil, fmt.Errorf("compress payload: %w", err)
		}
		if len(packed) > 0 && len(packed) < len(payload) {
			body = packed
			typ = c.Type()
		}
	}

	h := Header{
		Magic:            MagicNumber,
		Version:          Version,
		Compression:      typ,
		UncompressedSize: uint64(len(payload)),
		CompressedSize:   uint64(len(body)),
		Checksum:         hash.CRC32C(payload),
		Fingerprint:      fingerprint,
	}

	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(body))
	if err := binary.Write(&buf, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

// Open validates a sealed blob and returns its header and uncompressed payload.
func Open(blob []byte) (Header, []byte, error) {
	var h Header
	if len(blob) < HeaderSize {
		return h, nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncated, len(blob), HeaderSize)
	}
	if err := binary.Read(bytes.NewReader(blob[:HeaderSize]), binary.LittleEndian, &h); err != nil {
		return h, nil, err
	}
	if h.Magic != MagicNumber {
		return h, nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, h.Magic)
	}
	if h.Version != Version {
		return h, nil, fmt.Errorf("%w: got %d", ErrInvalidVersion, h.Version)
	}

	body := blob[HeaderSize:]
	if uint64(len(body)) != h.CompressedSize {
		return h, nil, fmt.Errorf("%w: payload has %d bytes, header says %d", ErrTruncated, len(body), h.CompressedSize)
	}

	c, err := compress.New(h.Compression)
	if err != nil {
		return h, nil, err
	}
	payload, err := c.Decompress(body, int(h.UncompressedSize))
	if err != nil {
		return h, nil, fmt.Errorf("decompress payload: %w", err)
	}

	if actual := hash.CRC32C(payload); actual != h.Checksum {
		return h, nil, &ChecksumMismatchError{Expected: h.Checksum, Actual: actual}
	}
	return h, payload, nil
}
