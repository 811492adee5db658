// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a narrow interface for the operations the
// page store needs: uploading, fetching, stat-ing, listing and removing objects. This
// abstraction supports both AWS S3 and self-hosted S3-compatible services.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
// A Client is safe for concurrent use; Close releases its pooled connections.
// Each call makes a single request; retrying is left to the caller (core/retry).
//
// # Credentials
//
// Static keys are used when AccessKey and SecretKey are both configured. Otherwise the
// ambient chain is consulted in order: AWS environment variables, MinIO environment
// variables, the shared AWS credentials file, and the IAM metadata endpoint. NewClient
// fails with ErrCredentials when nothing resolves.
//
// # Errors
//
// IsNotFound recognises the store's "no such key" signal in any wrapped error, so
// callers can separate absence from transport failures.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	defer client.Close()
//	info, err := client.StatObject(ctx, "pages", "a/b/1.jpeg", minio.StatObjectOptions{})
package storage
