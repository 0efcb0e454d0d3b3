package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSink stores notifications in a per-conversation hash with a TTL, so
// undismissed notifications still age out on their own.
type RedisSink struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSink(ctx context.Context, redisURL string, ttl time.Duration) (*RedisSink, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSink{client: client, ttl: ttl}, nil
}

func (s *RedisSink) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func notificationsKey(conversationID string) string {
	return fmt.Sprintf("notify:%s", conversationID)
}

func (s *RedisSink) Publish(ctx context.Context, n Notification) (Notification, error) {
	if s == nil || s.client == nil {
		return Notification{}, fmt.Errorf("sink is nil")
	}
	n = fill(n)
	if n.ConversationID == "" {
		return Notification{}, fmt.Errorf("conversation_id is required")
	}
	data, err := json.Marshal(n)
	if err != nil {
		return Notification{}, err
	}
	key := notificationsKey(n.ConversationID)
	if err := s.client.HSet(ctx, key, n.ID, string(data)).Err(); err != nil {
		return Notification{}, err
	}
	s.client.Expire(ctx, key, s.ttl)
	return n, nil
}

func (s *RedisSink) List(ctx context.Context, conversationID string) ([]Notification, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("sink is nil")
	}
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return nil, fmt.Errorf("conversation_id is required")
	}
	entries, err := s.client.HGetAll(ctx, notificationsKey(conversationID)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Notification, 0, len(entries))
	for _, raw := range entries {
		var n Notification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAtUnixMs < out[j].CreatedAtUnixMs })
	return out, nil
}

func (s *RedisSink) Dismiss(ctx context.Context, conversationID, id string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("sink is nil")
	}
	conversationID = strings.TrimSpace(conversationID)
	id = strings.TrimSpace(id)
	if conversationID == "" || id == "" {
		return fmt.Errorf("conversation_id and id are required")
	}
	return s.client.HDel(ctx, notificationsKey(conversationID), id).Err()
}
