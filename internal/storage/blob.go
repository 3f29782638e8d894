package storage

import (
	"errors"
	"io"
)

// ErrBadKey is returned for keys that are empty or escape the store root.
var ErrBadKey = errors.New("storage: invalid key")

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	URL(key string) (string, error) // public address of the blob
}
