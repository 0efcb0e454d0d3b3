package handler

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"scriptdeck/internal/notify"
)

func (s *Service) HandleListNotifications(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(r.PathValue("itemID"))
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}
	list, err := s.sink.List(r.Context(), itemID)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("item_id", itemID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "listing notifications failed")
		return
	}
	if list == nil {
		list = []notify.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": list})
}

func (s *Service) HandleDismissNotification(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(r.PathValue("itemID"))
	id := strings.TrimSpace(r.PathValue("id"))
	if itemID == "" || id == "" {
		writeError(w, http.StatusBadRequest, "item id and notification id are required")
		return
	}
	if err := s.sink.Dismiss(r.Context(), itemID, id); err != nil {
		s.logger.Error("dismiss notification failed", zap.String("item_id", itemID), zap.String("notification_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "dismissing notification failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
