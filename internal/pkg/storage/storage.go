package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("stored object not found")

// FileStorage persists opaque payloads under slash-separated keys.
type FileStorage interface {
	// Upload stores the content under key and returns the key it was stored at
	Upload(ctx context.Context, content io.Reader, key string, contentType string) (string, error)

	// Download opens the stored content; ErrObjectNotFound if missing
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}
