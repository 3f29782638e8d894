package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FSStore keeps blobs under a base directory and serves them below PublicPrefix.
type FSStore struct {
	base         string
	PublicPrefix string
}

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./data"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base, PublicPrefix: "/files/"}, nil
}

// NewKey names a fresh blob in dir, keeping the (lowercased) extension of filename.
func NewKey(dir, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(dir, uuid.NewString()+ext)
}

func (s *FSStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if key == "" || clean == "" || clean != key || strings.Contains(key, `\`) {
		return "", fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return filepath.Join(s.base, filepath.FromSlash(clean)), nil
}

func (s *FSStore) Put(key string, r io.Reader) (string, error) {
	dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return key, nil
}

func (s *FSStore) Get(key string) (io.ReadCloser, error) {
	src, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(src)
}

func (s *FSStore) URL(key string) (string, error) {
	if _, err := s.resolve(key); err != nil {
		return "", err
	}
	return strings.TrimSuffix(s.PublicPrefix, "/") + "/" + key, nil
}
