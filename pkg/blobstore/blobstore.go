// Package blobstore provides content-addressable storage for version
// content. References are opaque strings the version ledger persists; the
// store never deletes content a committed version may still reference.
package blobstore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Store is a content-addressable blob store keyed by SHA-256 of the content.
type Store struct {
	fs   afero.Fs
	root string
}

// New returns a store rooted at dir on the OS filesystem, creating the
// directory if needed.
func New(dir string) (*Store, error) {
	fs := afero.NewOsFs()
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating blob directory: %w", err)
	}
	return &Store{fs: fs, root: dir}, nil
}

// NewMem returns a store backed by an in-memory filesystem, for tests.
func NewMem() *Store {
	return &Store{fs: afero.NewMemMapFs(), root: "/blobs"}
}

// Put writes content and returns its reference. Writing the same content
// twice is idempotent and yields the same reference.
func (s *Store) Put(content []byte) (string, error) {
	sum := sha256.Sum256(content)
	ref := hex.EncodeToString(sum[:])

	path := s.path(ref)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("error creating blob shard directory: %w", err)
	}
	if exists, err := afero.Exists(s.fs, path); err != nil {
		return "", fmt.Errorf("error checking blob existence: %w", err)
	} else if exists {
		return ref, nil
	}
	if err := afero.WriteFile(s.fs, path, content, 0o644); err != nil {
		return "", fmt.Errorf("error writing blob: %w", err)
	}
	return ref, nil
}

// Get returns the content for a reference, or os.ErrNotExist if the
// reference is unknown.
func (s *Store) Get(ref string) ([]byte, error) {
	content, err := afero.ReadFile(s.fs, s.path(ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob %s: %w", ref, os.ErrNotExist)
		}
		return nil, fmt.Errorf("error reading blob: %w", err)
	}
	return content, nil
}

// path shards blobs by the first two hex characters to keep directories
// small.
func (s *Store) path(ref string) string {
	if len(ref) < 2 {
		return filepath.Join(s.root, ref)
	}
	return filepath.Join(s.root, ref[:2], ref)
}
