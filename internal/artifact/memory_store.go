package artifact

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore is the in-process blob store used when S3 is not configured.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, path string, content []byte) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path is required")
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	s.mu.Lock()
	s.blobs[path] = cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, path string) ([]byte, bool, error) {
	if s == nil {
		return nil, false, fmt.Errorf("store is nil")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false, fmt.Errorf("path is required")
	}
	s.mu.RLock()
	blob, ok := s.blobs[path]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(blob))
	copy(cp, blob)
	return cp, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, path string) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path is required")
	}
	s.mu.Lock()
	delete(s.blobs, path)
	s.mu.Unlock()
	return nil
}
