package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// File keeps one JSON document per owner in a directory.
type File struct {
	dir string
	key string
	mu  sync.Mutex
}

// NewFile creates a File store rooted at dir, creating it if needed.
// key is the field the owner id is written under.
func NewFile(dir, key string) (*File, error) {
	if key == "" {
		key = DefaultAssociationKey
	}
	if e := CheckAssociationKey(key); e != nil {
		return nil, e
	}
	if e := os.MkdirAll(dir, 0755); e != nil {
		return nil, fmt.Errorf("create store directory: %w", e)
	}
	return &File{dir: dir, key: key}, nil
}

func (f *File) path(owner string) string {
	return filepath.Join(f.dir, url.PathEscape(owner)+".json")
}

func (f *File) DeleteAll(_ context.Context, owner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e := os.Remove(f.path(owner)); e != nil && !os.IsNotExist(e) {
		return fmt.Errorf("delete rows for %s: %w", owner, e)
	}
	return nil
}

func (f *File) Create(_ context.Context, owner string, r Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rows, e := f.read(owner)
	if e != nil {
		return e
	}
	r.Owner = owner
	rows = append(rows, r)

	data, e := encodeRows(f.key, owner, rows)
	if e != nil {
		return e
	}

	tmp := f.path(owner) + ".tmp"
	if e := os.WriteFile(tmp, data, 0644); e != nil {
		return fmt.Errorf("write rows for %s: %w", owner, e)
	}
	if e := os.Rename(tmp, f.path(owner)); e != nil {
		return fmt.Errorf("write rows for %s: %w", owner, e)
	}
	return nil
}

func (f *File) List(_ context.Context, owner string) ([]Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(owner)
}

func (f *File) read(owner string) ([]Row, error) {
	data, e := os.ReadFile(f.path(owner))
	if os.IsNotExist(e) {
		return nil, nil
	}
	if e != nil {
		return nil, fmt.Errorf("read rows for %s: %w", owner, e)
	}
	return decodeRows(f.key, data)
}
