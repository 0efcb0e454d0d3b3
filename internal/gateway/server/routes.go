package server

import (
	"net/http"

	"scriptdeck/internal/gateway/handler"
	"scriptdeck/internal/gateway/middleware"
)

func NewMux(svc *handler.Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", svc.HandleHealthz)

	// Workspace items
	mux.HandleFunc("GET /api/items", svc.HandleListItems)
	mux.HandleFunc("POST /api/items", svc.HandleCreateItem)
	mux.HandleFunc("GET /api/items/{id}", svc.HandleGetItem)
	mux.HandleFunc("PUT /api/items/{id}", svc.HandleUpdateItem)
	mux.HandleFunc("DELETE /api/items/{id}", svc.HandleDeleteItem)

	// Chat
	mux.HandleFunc("GET /api/chat/{itemID}/messages", svc.HandleGetMessages)
	mux.HandleFunc("POST /api/chat/{itemID}/messages", svc.HandleSendMessage)
	mux.HandleFunc("GET /api/chat/{itemID}/context", svc.HandleGetContext)
	mux.HandleFunc("GET /api/chat/{itemID}/ws", svc.HandleChatWS)

	// Notifications
	mux.HandleFunc("GET /api/notifications/{itemID}", svc.HandleListNotifications)
	mux.HandleFunc("POST /api/notifications/{itemID}/{id}/dismiss", svc.HandleDismissNotification)

	return middleware.CORS(mux)
}
