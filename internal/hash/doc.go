// Package hash provides the checksums and fingerprints used by persisted pipeline state.
//
// # CRC32-Castagnoli (CRC32C)
//
// Blob payloads are protected with CRC32C, which is hardware accelerated on
// x86 (SSE4.2) and ARM (CRC extension):
//
//	checksum := hash.CRC32C(payload)
//
// # Schema fingerprints
//
// The ordered feature column list frozen at fit time is fingerprinted with
// xxHash64. The fingerprint is written to both the state blob and the metadata
// record so that mismatched artifacts are rejected on load:
//
//	fp := hash.Fingerprint(featureCols)
package hash
