// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is an S3-compatible object storage system. This package uses the
// MinIO Go client and works with other S3-compatible systems such as Ceph,
// SeaweedFS, and Garage.
//
// # Basic Usage
//
//	store, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "models",
//	    Prefix:    "pipelines/",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = pipeline.Save(ctx, store, "churn-v3")
//
// An existing *minio.Client can be wrapped with NewStore.
package minio
