// Package persistence provides the binary container for fitted pipeline state.
//
// A state blob is a fixed little-endian header followed by a (possibly
// compressed) payload:
//
//	Magic            uint32  "FQS1"
//	Version          uint16
//	Compression      uint8   compress.Type of the payload
//	Reserved         uint8
//	UncompressedSize uint64
//	CompressedSize   uint64
//	Checksum         uint32  CRC32C of the uncompressed payload
//	Fingerprint      uint64  xxHash64 of the ordered feature columns
//
// The payload itself is written with Writer and read back with Reader.
package persistence
