package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"scriptdeck/internal/conversation"
)

const (
	chatWSWriteWait = 10 * time.Second
	chatWSPongWait  = 60 * time.Second
	chatWSPingEvery = (chatWSPongWait * 9) / 10
)

var chatWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type chatWSInbound struct {
	Type  string `json:"type"` // submit | input
	Input string `json:"input,omitempty"`
}

type chatWSOutbound struct {
	Type     string                 `json:"type"` // snapshot | message | busy | rejected
	Messages []conversation.Message `json:"messages,omitempty"`
	Message  *conversation.Message  `json:"message,omitempty"`
	Busy     bool                   `json:"busy"`
	Code     string                 `json:"code,omitempty"`
	Reason   string                 `json:"reason,omitempty"`
}

// HandleChatWS streams conversation events for one panel and accepts
// submissions over the same socket.
func (s *Service) HandleChatWS(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(r.PathValue("itemID"))
	if itemID == "" {
		http.Error(w, "item id is required", http.StatusBadRequest)
		return
	}
	ctrl, err := s.convs.Ensure(itemID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := chatWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(chatWSPongWait)); err != nil {
		s.logger.Warn("chat ws set read deadline failed", zap.Error(err))
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(chatWSPongWait))
	})

	writeCh := make(chan chatWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(chatWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	snapshot, events, unwatch := ctrl.Watch()
	defer unwatch()

	pushChatWS(writeCh, chatWSOutbound{Type: "snapshot", Messages: snapshot, Busy: ctrl.Busy()})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				out := chatWSOutbound{Type: ev.Type, Message: ev.Message, Busy: ev.Busy}
				pushChatWS(writeCh, out)
			}
		}
	}()

	for {
		var in chatWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(chatWSPongWait))
		switch strings.TrimSpace(in.Type) {
		case "input":
			ctrl.SetInput(in.Input)
		case "submit":
			// Run the turn off the read loop; the busy flag serializes turns.
			go func(input string) {
				err := ctrl.Submit(ctx, input)
				switch {
				case errors.Is(err, conversation.ErrEmptyInput):
					pushChatWS(writeCh, chatWSOutbound{Type: "rejected", Code: "empty_input", Busy: ctrl.Busy()})
				case errors.Is(err, conversation.ErrBusy):
					pushChatWS(writeCh, chatWSOutbound{Type: "rejected", Code: "busy", Busy: true})
				case err != nil:
					pushChatWS(writeCh, chatWSOutbound{Type: "rejected", Code: "internal", Reason: err.Error(), Busy: ctrl.Busy()})
				}
			}(in.Input)
		}
	}
}

func pushChatWS(ch chan<- chatWSOutbound, out chatWSOutbound) {
	select {
	case ch <- out:
	default:
		// slow socket; drop rather than stall the conversation
	}
}
