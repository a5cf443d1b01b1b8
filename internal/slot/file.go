package slot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSlot keeps the value in a single file.
type FileSlot struct {
	mu   sync.RWMutex
	path string
}

func NewFileSlot(path string) (*FileSlot, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &FileSlot{path: abs}, nil
}

func (s *FileSlot) Load(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return data, nil
}

func (s *FileSlot) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to a temp file then rename so readers never see half a value.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func (s *FileSlot) Close() error { return nil }
