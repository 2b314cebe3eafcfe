package compress

import (
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances, which keep a hash table between calls.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor implements Codec with LZ4 block compression.
type LZ4Compressor struct{}

var _ Codec = LZ4Compressor{}

// Compress compresses data as a single LZ4 block.
func (LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	// n == 0 means incompressible.
	return dst[:n], nil
}

// Decompress decompresses an LZ4 block of known size.
func (LZ4Compressor) Decompress(data []byte, size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	out := make([]byte, size)
	n, err := lz4.UncompressBlock(data, out)
	if err != nil {
		return nil, err
	}
	return checkSize(out[:n], size)
}

// Type returns LZ4.
func (LZ4Compressor) Type() Type { return LZ4 }
