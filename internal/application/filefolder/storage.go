package filefolder

import (
	"context"
	"io"
)

// ObjectStorage stores uploaded file content by key
type ObjectStorage interface {
	// Put writes body under key, replacing any existing object
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// Open streams the object; a missing key yields shared.ErrNotFound
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
	// URL returns a client-facing address for key
	URL(key string) string
}
