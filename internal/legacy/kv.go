// Package legacy reads the key-value data left behind by the old app build
// and copies it into the relational store, once.
package legacy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// KV is the minimal slice of the legacy key-value namespace the importer
// needs. Reads are non-destructive; the only write is the completion flag.
type KV interface {
	// Get returns the value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}

// DirKV is a KV backed by one file per key inside a directory, the shape an
// exported AsyncStorage namespace arrives in.
type DirKV struct {
	dir string
}

// NewDirKV returns a DirKV rooted at dir, creating it if needed.
func NewDirKV(dir string) (*DirKV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create legacy data directory: %w", err)
	}
	return &DirKV{dir: dir}, nil
}

func (kv *DirKV) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(kv.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return data, nil
}

func (kv *DirKV) Set(_ context.Context, key string, value []byte) error {
	if err := os.WriteFile(kv.path(key), value, 0644); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (kv *DirKV) path(key string) string {
	return filepath.Join(kv.dir, key)
}
