package compress

import "github.com/klauspost/compress/s2"

// S2Compressor implements Codec with S2 block compression.
type S2Compressor struct{}

var _ Codec = S2Compressor{}

// Compress compresses data with S2.
func (S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Encode(nil, data), nil
}

// Decompress decompresses an S2 block.
func (S2Compressor) Decompress(data []byte, size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, err
	}
	return checkSize(out, size)
}

// Type returns S2.
func (S2Compressor) Type() Type { return S2 }
