package storage

import (
	"context"
	"io"
)

// Storage is the backing store for resource photos.
type Storage interface {
	// Save stores content under the given relative path, creating parent
	// directories as needed.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get opens the object stored at the given relative path.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at the given relative path.
	// Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error
}
