package compress

// NoOp stores data uncompressed.
type NoOp struct{}

var _ Codec = NoOp{}

// Compress returns data unchanged.
func (NoOp) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data unchanged after a size check.
func (NoOp) Decompress(data []byte, size int) ([]byte, error) { return checkSize(data, size) }

// Type returns None.
func (NoOp) Type() Type { return None }
