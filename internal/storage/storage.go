// Package storage abstracts where course images live. The local
// provider keeps them on disk under the uploads directory; the
// interface leaves room for an object store later.
package storage

import (
	"context"
	"io"
)

// Client defines the interface for image storage operations.
type Client interface {
	// Save writes content under key, overwriting any previous object.
	Save(ctx context.Context, key string, content io.Reader) error

	// Delete removes the object stored under key. Deleting a missing
	// key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every stored key.
	List(ctx context.Context) ([]string, error)

	// URL returns the public URL a stored key is served from.
	URL(key string) string
}
