package notify

import (
	"context"

	"go.uber.org/zap"
)

// SinkNotifier adapts a Sink to the narrow notifier contract the
// conversation controller depends on. Publish failures are logged and
// swallowed: a notification that cannot be delivered must not fail the turn.
type SinkNotifier struct {
	sink   Sink
	logger *zap.Logger
}

func NewSinkNotifier(sink Sink, logger *zap.Logger) *SinkNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SinkNotifier{sink: sink, logger: logger}
}

func (n *SinkNotifier) Notify(ctx context.Context, conversationID, severity, message string) {
	if n == nil || n.sink == nil {
		return
	}
	_, err := n.sink.Publish(ctx, Notification{
		ConversationID: conversationID,
		Severity:       severity,
		Message:        message,
	})
	if err != nil {
		n.logger.Warn("notification publish failed",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
	}
}
