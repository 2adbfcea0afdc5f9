package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/dmitrijs2005/triptales/internal/filex"
)

type LocalStore struct {
	dir string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return &LocalStore{dir: abs}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	if err := ValidName(name); err != nil {
		return "", err
	}
	if err := filex.WriteFileAtomic(filepath.Join(s.dir, name), data, 0o640); err != nil {
		return "", err
	}
	return PublicPath(name), nil
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) Locate(_ context.Context, name string) (Location, error) {
	if err := ValidName(name); err != nil {
		return Location{}, err
	}
	path := filepath.Join(s.dir, name)
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Location{}, common.ErrNotFound
		}
		return Location{}, err
	}
	if fi.IsDir() {
		return Location{}, common.ErrNotFound
	}
	return Location{FilePath: path}, nil
}
