package workspace

import (
	"context"
	"fmt"

	"scriptdeck/internal/artifact"
)

// OffloadStore keeps item contents above a size threshold in a blob store
// and re-hydrates them on read, so SQL rows stay small.
type OffloadStore struct {
	inner     Store
	blobs     artifact.Store
	threshold int
}

const contentRef = "\x00blob\x00"

func NewOffloadStore(inner Store, blobs artifact.Store, threshold int) (*OffloadStore, error) {
	if inner == nil || blobs == nil {
		return nil, fmt.Errorf("inner store and blob store are required")
	}
	if threshold <= 0 {
		threshold = 32 * 1024
	}
	return &OffloadStore{inner: inner, blobs: blobs, threshold: threshold}, nil
}

func blobPath(itemID string) string { return "items/" + itemID + "/content" }

func (s *OffloadStore) Put(ctx context.Context, item WindowItem) (WindowItem, error) {
	if s == nil {
		return WindowItem{}, fmt.Errorf("store is nil")
	}
	item = normalizeItem(item)
	if item.ID == "" {
		return WindowItem{}, fmt.Errorf("item id is required")
	}
	content := item.Content
	if len(content) >= s.threshold {
		if err := s.blobs.Put(ctx, blobPath(item.ID), []byte(content)); err != nil {
			return WindowItem{}, fmt.Errorf("offload content: %w", err)
		}
		item.Content = contentRef
	} else {
		// Shrunk back under the threshold; drop any stale blob.
		_ = s.blobs.Delete(ctx, blobPath(item.ID))
	}
	stored, err := s.inner.Put(ctx, item)
	if err != nil {
		return WindowItem{}, err
	}
	if stored.Content == contentRef {
		stored.Content = content
	}
	return stored, nil
}

func (s *OffloadStore) hydrate(ctx context.Context, item WindowItem) (WindowItem, error) {
	if item.Content != contentRef {
		return item, nil
	}
	blob, ok, err := s.blobs.Get(ctx, blobPath(item.ID))
	if err != nil {
		return WindowItem{}, fmt.Errorf("hydrate content: %w", err)
	}
	if !ok {
		item.Content = ""
		return item, nil
	}
	item.Content = string(blob)
	return item, nil
}

func (s *OffloadStore) Get(ctx context.Context, id string) (WindowItem, bool, error) {
	if s == nil {
		return WindowItem{}, false, fmt.Errorf("store is nil")
	}
	item, ok, err := s.inner.Get(ctx, id)
	if err != nil || !ok {
		return WindowItem{}, ok, err
	}
	item, err = s.hydrate(ctx, item)
	if err != nil {
		return WindowItem{}, false, err
	}
	return item, true, nil
}

func (s *OffloadStore) List(ctx context.Context) ([]WindowItem, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	items, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i], err = s.hydrate(ctx, items[i])
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *OffloadStore) Delete(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.blobs.Delete(ctx, blobPath(normalizeItemID(id)))
	return nil
}

func (s *OffloadStore) Close() error {
	if s == nil {
		return nil
	}
	return s.inner.Close()
}
