package handler

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"scriptdeck/internal/contextbuild"
	"scriptdeck/internal/conversation"
)

type sendMessageRequest struct {
	Input string `json:"input"`
}

// HandleSendMessage runs one conversation turn synchronously. The controller
// treats blank input and concurrent submits as silent no-ops; the HTTP layer
// reports them so clients can react.
func (s *Service) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(r.PathValue("itemID"))
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}
	var in sendMessageRequest
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	ctrl, err := s.convs.Ensure(itemID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = ctrl.Submit(r.Context(), in.Input)
	switch {
	case errors.Is(err, conversation.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, "input is empty")
		return
	case errors.Is(err, conversation.ErrBusy):
		writeError(w, http.StatusConflict, "a request is already in flight")
		return
	case err != nil:
		s.logger.Error("submit failed", zap.String("item_id", itemID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "submit failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"conversation_id": ctrl.ID(),
		"messages":        ctrl.Messages(),
		"busy":            ctrl.Busy(),
	})
}

func (s *Service) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(r.PathValue("itemID"))
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}
	ctrl, ok := s.convs.Get(itemID)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"messages": []conversation.Message{}, "busy": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversation_id": ctrl.ID(),
		"messages":        ctrl.Messages(),
		"busy":            ctrl.Busy(),
	})
}

// HandleGetContext previews the context the next submission would carry.
func (s *Service) HandleGetContext(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(r.PathValue("itemID"))
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}
	focal, ok, err := s.items.Get(r.Context(), itemID)
	if err != nil {
		s.logger.Error("get item failed", zap.String("item_id", itemID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "reading item failed")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	all, err := s.items.List(r.Context())
	if err != nil {
		s.logger.Error("list items failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "listing items failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"context": contextbuild.Assemble(focal, all),
	})
}
