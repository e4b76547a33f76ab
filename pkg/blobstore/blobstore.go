package blobstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store persists an uploaded blob and returns its public URL.
type Store interface {
	Save(name string, r io.Reader) (string, error)
}

// DiskStore writes blobs under Dir and serves them at BaseURL.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStore{
		Dir:     dir,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *DiskStore) Save(name string, r io.Reader) (string, error) {
	// Uploaded filenames are untrusted, keep only the base.
	name = filepath.Base(name)

	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}

	return s.BaseURL + "/" + name, nil
}
