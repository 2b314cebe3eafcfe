// Package blobstore provides the storage abstraction for persisted pipeline artifacts.
//
// BlobStore is a flat namespace of byte blobs addressed by
// slash-separated names such as "churn-v3/pipeline.bin". Implementations must
// be safe for concurrent use and must report missing blobs with an error that
// satisfies errors.Is(err, ErrNotFound).
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and ephemeral pipelines
//   - LocalStore: local filesystem with atomic writes
//   - s3.Store: Amazon S3 (see the s3 sub-package)
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Wrappers
//
//   - CachingStore: bounded read-through cache for repeated loads
//   - ThrottledStore: byte-rate limiting for shared links
package blobstore
