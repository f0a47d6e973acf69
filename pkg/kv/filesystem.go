package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FilesystemStore keeps one JSON file per collection under a base directory.
type FilesystemStore struct {
	baseDir string
}

// NewFilesystemStore ensures the base directory exists and returns a handle.
func NewFilesystemStore(baseDir string) (*FilesystemStore, error) {
	if baseDir == "" {
		baseDir = "./data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FilesystemStore{baseDir: baseDir}, nil
}

// Load reads and unmarshals the collection file.
func (s *FilesystemStore) Load(_ context.Context, collection string, dest interface{}) error {
	raw, err := os.ReadFile(s.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read collection %s: %w", collection, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode collection %s: %w", collection, err)
	}
	return nil
}

// Save marshals the value and replaces the collection file. The write goes
// through a temp file and rename so a crash cannot leave a half-written
// document behind.
func (s *FilesystemStore) Save(_ context.Context, collection string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}
	path := s.path(collection)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace collection %s: %w", collection, err)
	}
	return nil
}

func (s *FilesystemStore) path(collection string) string {
	return filepath.Join(s.baseDir, collection+".json")
}
