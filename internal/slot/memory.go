package slot

import (
	"context"
	"sync"
)

type MemorySlot struct {
	mu    sync.Mutex
	value []byte
	set   bool
}

func NewMemorySlot() *MemorySlot { return &MemorySlot{} }

func (s *MemorySlot) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return nil, ErrEmpty
	}
	return append([]byte(nil), s.value...), nil
}

func (s *MemorySlot) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = append([]byte(nil), data...)
	s.set = true
	return nil
}

func (s *MemorySlot) Close() error { return nil }
