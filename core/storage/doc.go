// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface. The object
// membership registry stores one JSON record per cluster instance in a bucket;
// it works against AWS S3 as well as self-hosted MinIO.
//
// The Client interface keeps storage interactions mockable in unit tests
// (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
