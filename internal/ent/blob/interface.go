// Package blob describes storage of uploaded and downloaded files of the
// local registry.
package blob

import (
	"context"
	"io"
)

// Info describes a stored blob.
type Info struct {
	// Key is the unique key of the blob.
	Key string `json:"key"`

	// Name is the original file name.
	Name string `json:"name"`

	// ContentType is a MIME type of the content.
	ContentType string `json:"contentType"`

	// Size in bytes.
	Size int64 `json:"size"`
}

// Store keeps blobs by key.
type Store interface {
	// Put saves content under a key. An empty content type is detected
	// from the content.
	Put(ctx context.Context, info Info, r io.Reader) (Info, error)

	// Get returns blob description and content. The caller closes the
	// reader.
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)

	// Delete removes a blob.
	Delete(ctx context.Context, key string) error
}
