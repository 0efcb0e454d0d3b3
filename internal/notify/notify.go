// Package notify delivers transient, dismissible, severity-tagged user
// notifications. Notifications are not part of any message log; they expire
// or are dismissed.
package notify

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SeverityInfo  = "info"
	SeverityError = "error"
)

// Notification is one transient message shown outside the chat log.
type Notification struct {
	ID              string `json:"id"`
	ConversationID  string `json:"conversation_id"`
	Severity        string `json:"severity"`
	Message         string `json:"message"`
	CreatedAtUnixMs int64  `json:"created_at_unix_ms"`
}

// Sink stores and serves notifications per conversation.
type Sink interface {
	Publish(ctx context.Context, n Notification) (Notification, error)
	List(ctx context.Context, conversationID string) ([]Notification, error)
	Dismiss(ctx context.Context, conversationID, id string) error
}

func normalizeSeverity(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case SeverityError:
		return SeverityError
	default:
		return SeverityInfo
	}
}

func fill(n Notification) Notification {
	if strings.TrimSpace(n.ID) == "" {
		n.ID = uuid.NewString()
	}
	n.ConversationID = strings.TrimSpace(n.ConversationID)
	n.Severity = normalizeSeverity(n.Severity)
	n.Message = strings.TrimSpace(n.Message)
	if n.CreatedAtUnixMs == 0 {
		n.CreatedAtUnixMs = time.Now().UnixMilli()
	}
	return n
}
