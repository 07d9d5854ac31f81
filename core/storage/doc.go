// Package storage wraps the MinIO client used to archive cycle reports in an
// S3 compatible bucket.
//
// The Client interface only lists the calls the archive makes, which keeps
// the testify mock in core/storage/mocks small.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
