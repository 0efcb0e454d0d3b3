package workspace

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore is a read-through LRU in front of another Store. Writes go to
// the backing store and invalidate both the item entry and the list snapshot.
type CachedStore struct {
	inner Store
	items *lru.Cache[string, WindowItem]
	lists *lru.Cache[string, []WindowItem]
}

const listCacheKey = "all"

func NewCachedStore(inner Store, entries int) (*CachedStore, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner store is required")
	}
	if entries <= 0 {
		entries = 256
	}
	items, err := lru.New[string, WindowItem](entries)
	if err != nil {
		return nil, err
	}
	lists, err := lru.New[string, []WindowItem](1)
	if err != nil {
		return nil, err
	}
	return &CachedStore{inner: inner, items: items, lists: lists}, nil
}

func (s *CachedStore) Put(ctx context.Context, item WindowItem) (WindowItem, error) {
	if s == nil {
		return WindowItem{}, fmt.Errorf("store is nil")
	}
	stored, err := s.inner.Put(ctx, item)
	if err != nil {
		return WindowItem{}, err
	}
	s.items.Add(stored.ID, stored)
	s.lists.Purge()
	return stored, nil
}

func (s *CachedStore) Get(ctx context.Context, id string) (WindowItem, bool, error) {
	if s == nil {
		return WindowItem{}, false, fmt.Errorf("store is nil")
	}
	id = normalizeItemID(id)
	if item, ok := s.items.Get(id); ok {
		return item, true, nil
	}
	item, ok, err := s.inner.Get(ctx, id)
	if err != nil || !ok {
		return WindowItem{}, ok, err
	}
	s.items.Add(item.ID, item)
	return item, true, nil
}

func (s *CachedStore) List(ctx context.Context) ([]WindowItem, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if cached, ok := s.lists.Get(listCacheKey); ok {
		out := make([]WindowItem, len(cached))
		copy(out, cached)
		return out, nil
	}
	items, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := make([]WindowItem, len(items))
	copy(snapshot, items)
	s.lists.Add(listCacheKey, snapshot)
	return items, nil
}

func (s *CachedStore) Delete(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	id = normalizeItemID(id)
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	s.items.Remove(id)
	s.lists.Purge()
	return nil
}

func (s *CachedStore) Close() error {
	if s == nil {
		return nil
	}
	return s.inner.Close()
}
