package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemorySink keeps a bounded per-conversation ring of notifications.
type MemorySink struct {
	mu     sync.RWMutex
	byConv map[string][]Notification
	limit  int
}

func NewMemorySink(limit int) *MemorySink {
	if limit <= 0 {
		limit = 64
	}
	return &MemorySink{byConv: make(map[string][]Notification), limit: limit}
}

func (s *MemorySink) Publish(_ context.Context, n Notification) (Notification, error) {
	if s == nil {
		return Notification{}, fmt.Errorf("sink is nil")
	}
	n = fill(n)
	if n.ConversationID == "" {
		return Notification{}, fmt.Errorf("conversation_id is required")
	}
	s.mu.Lock()
	list := append(s.byConv[n.ConversationID], n)
	if len(list) > s.limit {
		list = list[len(list)-s.limit:]
	}
	s.byConv[n.ConversationID] = list
	s.mu.Unlock()
	return n, nil
}

func (s *MemorySink) List(_ context.Context, conversationID string) ([]Notification, error) {
	if s == nil {
		return nil, fmt.Errorf("sink is nil")
	}
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return nil, fmt.Errorf("conversation_id is required")
	}
	s.mu.RLock()
	list := s.byConv[conversationID]
	out := make([]Notification, len(list))
	copy(out, list)
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAtUnixMs < out[j].CreatedAtUnixMs })
	return out, nil
}

func (s *MemorySink) Dismiss(_ context.Context, conversationID, id string) error {
	if s == nil {
		return fmt.Errorf("sink is nil")
	}
	conversationID = strings.TrimSpace(conversationID)
	id = strings.TrimSpace(id)
	if conversationID == "" || id == "" {
		return fmt.Errorf("conversation_id and id are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byConv[conversationID]
	for i, n := range list {
		if n.ID == id {
			s.byConv[conversationID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}
