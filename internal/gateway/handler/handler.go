package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"scriptdeck/internal/conversation"
	"scriptdeck/internal/notify"
	"scriptdeck/internal/workspace"
)

// Service carries the dependencies shared by all HTTP handlers.
type Service struct {
	items  workspace.Store
	convs  *conversation.Manager
	sink   notify.Sink
	logger *zap.Logger
}

func NewService(items workspace.Store, convs *conversation.Manager, sink notify.Sink, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{items: items, convs: convs, sink: sink, logger: logger}
}

func (s *Service) HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
