package workspace

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps window items in process memory. It is the default
// backend and the reference semantics for the others.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]WindowItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]WindowItem)}
}

func (s *MemoryStore) Put(_ context.Context, item WindowItem) (WindowItem, error) {
	if s == nil {
		return WindowItem{}, fmt.Errorf("store is nil")
	}
	item = normalizeItem(item)
	if item.ID == "" {
		return WindowItem{}, fmt.Errorf("item id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.byID[item.ID]; ok {
		item.CreatedAtUnixMs = prev.CreatedAtUnixMs
	} else if item.CreatedAtUnixMs == 0 {
		item.CreatedAtUnixMs = time.Now().UnixMilli()
	}
	s.byID[item.ID] = item
	return item, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (WindowItem, bool, error) {
	if s == nil {
		return WindowItem{}, false, fmt.Errorf("store is nil")
	}
	id = normalizeItemID(id)
	if id == "" {
		return WindowItem{}, false, fmt.Errorf("item id is required")
	}
	s.mu.RLock()
	item, ok := s.byID[id]
	s.mu.RUnlock()
	return item, ok, nil
}

func (s *MemoryStore) List(_ context.Context) ([]WindowItem, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	s.mu.RLock()
	out := make([]WindowItem, 0, len(s.byID))
	for _, item := range s.byID {
		out = append(out, item)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAtUnixMs != out[j].CreatedAtUnixMs {
			return out[i].CreatedAtUnixMs < out[j].CreatedAtUnixMs
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	id = normalizeItemID(id)
	if id == "" {
		return fmt.Errorf("item id is required")
	}
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
