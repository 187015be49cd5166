package server

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// BlobStore abstracts where uploaded image bytes live. The rest of the
// server only ever sees keys and public URLs.
type BlobStore interface {
	Put(key string, data []byte) error
	Remove(key string) error
	PublicURL(key string) string
}

// DiskBlobStore keeps blobs as plain files under dir, served by the
// /media/ file route.
type DiskBlobStore struct {
	dir     string
	baseURL string
}

func NewDiskBlobStore(dir, baseURL string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}
	return &DiskBlobStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *DiskBlobStore) keyPath(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), nil
}

func (s *DiskBlobStore) Put(key string, data []byte) error {
	p, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating blob dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("writing blob %q: %w", key, err)
	}
	return nil
}

func (s *DiskBlobStore) Remove(key string) error {
	p, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing blob %q: %w", key, err)
	}
	return nil
}

func (s *DiskBlobStore) PublicURL(key string) string {
	return s.baseURL + path.Clean("/"+key)
}
