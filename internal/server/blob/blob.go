// Package blob abstracts the object store holding book files. The server
// never proxies file bytes; clients upload and download through presigned
// URLs.
package blob

import "context"

// Store issues presigned URLs and deletes stored objects.
type Store interface {
	// PresignPut returns a fresh storage key and a presigned PUT URL for it.
	PresignPut(ctx context.Context) (key string, url string, err error)

	// PresignGet returns a presigned GET URL for an existing key.
	PresignGet(ctx context.Context, key string) (string, error)

	// Delete removes the object behind key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
}
