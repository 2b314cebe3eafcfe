// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("pipelines/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = pipeline.Save(ctx, store, "churn-v3")
//
// # Features
//
//   - CRC32C checksums on every upload
//   - Multipart uploads above a configurable threshold
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//   - DDBCommitStore: DynamoDB-versioned metadata commits for concurrent writers
package s3
