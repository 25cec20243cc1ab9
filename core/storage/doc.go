// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so the comparison tool can read task files
// from a bucket and publish markdown reports. Both AWS S3 and self-hosted
// MinIO instances are supported.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Helpers
//
//   - ParseURI: Splits a "storage://bucket/key" reference.
//   - ReadObject / WriteObject: Whole-object download and upload.
//   - EnsureBucket: Creates the report bucket on first use.
//   - ListKeys: Lists published reports under a prefix.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	data, err := storage.ReadObject(ctx, client, "configs", "compare.yaml")
package storage
