// Package filestore maps object locations onto a local directory tree:
// <root>/<bucket>/<key>.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/wdm0006/intakegate/pkg/store"
)

type Store struct {
	root string
}

func New(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("filestore root: %w", err)
	}
	return &Store{root: abs}, nil
}

func (s *Store) path(loc store.Location) (string, error) {
	if err := loc.Validate(); err != nil {
		return "", err
	}
	p := filepath.Join(s.root, loc.Bucket, filepath.FromSlash(loc.Key))
	if !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes the store root", store.ErrInvalidLocation, loc)
	}
	return p, nil
}

func (s *Store) Get(ctx context.Context, loc store.Location) ([]byte, error) {
	p, err := s.path(loc)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, loc)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", loc, err)
	}
	return b, nil
}

// Put writes through a temporary file and renames it into place, so readers
// never observe a partial object.
func (s *Store) Put(ctx context.Context, loc store.Location, data []byte) error {
	p, err := s.path(loc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("writing %s: %w", loc, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-"+filepath.Base(p)+"-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", loc, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", loc, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", loc, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("writing %s: %w", loc, err)
	}
	return nil
}
