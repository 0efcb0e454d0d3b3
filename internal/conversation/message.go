package conversation

import (
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// Message is one turn in a conversation log. Immutable once appended;
// insertion order is display order.
type Message struct {
	ID              string `json:"id"`
	Role            string `json:"role"`
	Content         string `json:"content"`
	CreatedAtUnixMs int64  `json:"created_at_unix_ms"`
}

func newMessage(role, content string) Message {
	return Message{
		ID:              ulid.Make().String(),
		Role:            role,
		Content:         content,
		CreatedAtUnixMs: time.Now().UnixMilli(),
	}
}
