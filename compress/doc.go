// Package compress provides the block compressors used for persisted pipeline state.
//
// Fitted state blobs are small (a few KB to a few MB: bin edges, quantile
// references, code maps), written once and read on every load. Zstandard is
// the default; LZ4 and S2 trade ratio for speed; None disables compression.
//
//	c, _ := compress.New(compress.Zstd)
//	packed, _ := c.Compress(payload)
//	payload, _ = c.Decompress(packed, len(payload))
package compress
