package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the key-value map as a single JSON object on disk.
// The whole file is rewritten on every Set; a malformed or empty file is
// treated as an empty map so corruption never blocks a fresh start.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	// Touch file if not exists
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileStore{path: path}, nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.loadUnlocked()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.loadUnlocked()
	if err != nil {
		return err
	}
	values[key] = value
	return s.saveUnlocked(values)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) loadUnlocked() (map[string]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	values := make(map[string]string)
	dec := json.NewDecoder(f)
	if err := dec.Decode(&values); err != nil {
		if err == io.EOF {
			return map[string]string{}, nil
		}
		// empty or malformed -> start fresh
		return map[string]string{}, nil
	}
	return values, nil
}

func (s *FileStore) saveUnlocked(values map[string]string) error {
	f, err := os.OpenFile(s.path, os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open write: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(values)
}
