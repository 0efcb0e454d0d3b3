package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scriptdeck/internal/workspace"
)

func (s *Service) HandleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.List(r.Context())
	if err != nil {
		s.logger.Error("list items failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "listing items failed")
		return
	}
	if items == nil {
		items = []workspace.WindowItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Service) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in workspace.WindowItem
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(in.ID) == "" {
		in.ID = uuid.NewString()
	}
	stored, err := s.items.Put(r.Context(), in)
	if err != nil {
		s.logger.Error("create item failed", zap.String("item_id", in.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "storing item failed")
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Service) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}
	item, ok, err := s.items.Get(r.Context(), id)
	if err != nil {
		s.logger.Error("get item failed", zap.String("item_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "reading item failed")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Service) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}
	var in workspace.WindowItem
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	in.ID = id
	stored, err := s.items.Put(r.Context(), in)
	if err != nil {
		s.logger.Error("update item failed", zap.String("item_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "storing item failed")
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Service) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}
	if err := s.items.Delete(r.Context(), id); err != nil {
		s.logger.Error("delete item failed", zap.String("item_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "deleting item failed")
		return
	}
	// The panel's conversation goes away with its item.
	s.convs.Discard(id)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
