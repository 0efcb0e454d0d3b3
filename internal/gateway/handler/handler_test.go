package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"scriptdeck/internal/conversation"
	"scriptdeck/internal/gateway/handler"
	"scriptdeck/internal/gateway/server"
	"scriptdeck/internal/llm"
	"scriptdeck/internal/notify"
	"scriptdeck/internal/workspace"
)

type failingGenerator struct{}

func (failingGenerator) Name() string { return "failing" }
func (failingGenerator) GenerateScript(context.Context, llm.Request) (llm.Result, error) {
	return llm.Result{}, errors.New("provider exploded")
}

func newTestMux(t *testing.T, gen conversation.Generator) (http.Handler, workspace.Store, notify.Sink) {
	t.Helper()
	store := workspace.NewMemoryStore()
	sink := notify.NewMemorySink(0)
	notifier := notify.NewSinkNotifier(sink, nil)
	convs := conversation.NewManager(gen, notifier, store, nil)
	svc := handler.NewService(store, convs, sink, nil)
	return server.NewMux(svc), store, sink
}

func do(t *testing.T, mux http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	mux, _, _ := newTestMux(t, llm.NewFakeClient())
	rec := do(t, mux, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestItemCRUD(t *testing.T) {
	mux, _, _ := newTestMux(t, llm.NewFakeClient())

	rec := do(t, mux, http.MethodPost, "/api/items", workspace.WindowItem{Title: "Note", Content: "hello"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[workspace.WindowItem](t, rec)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Note", created.Title)
	require.Equal(t, "text", created.Type)

	rec = do(t, mux, http.MethodGet, "/api/items/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, http.MethodPut, "/api/items/"+created.ID, workspace.WindowItem{Title: "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[workspace.WindowItem](t, rec)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Renamed", updated.Title)

	rec = do(t, mux, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[struct {
		Items []workspace.WindowItem `json:"items"`
	}](t, rec)
	require.Len(t, listed.Items, 1)

	rec = do(t, mux, http.MethodDelete, "/api/items/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/items/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func seedConnectedItems(t *testing.T, store workspace.Store) {
	t.Helper()
	ctx := context.Background()
	_, err := store.Put(ctx, workspace.WindowItem{
		ID:          "focal",
		Title:       "Focal",
		Connections: []workspace.Connection{{To: "note"}},
	})
	require.NoError(t, err)
	_, err = store.Put(ctx, workspace.WindowItem{
		ID: "note", Title: "T1", Type: "text", Content: "hello",
	})
	require.NoError(t, err)
}

type chatResponse struct {
	ConversationID string                 `json:"conversation_id"`
	Messages       []conversation.Message `json:"messages"`
	Busy           bool                   `json:"busy"`
}

func TestSendMessage(t *testing.T) {
	mux, store, _ := newTestMux(t, llm.NewFakeClient())
	seedConnectedItems(t, store)

	rec := do(t, mux, http.MethodPost, "/api/chat/focal/messages", map[string]string{"input": "hi"})
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode[chatResponse](t, rec)
	require.NotEmpty(t, out.ConversationID)
	require.False(t, out.Busy)
	require.Len(t, out.Messages, 2)
	require.Equal(t, conversation.RoleUser, out.Messages[0].Role)
	require.Equal(t, "hi", out.Messages[0].Content)
	require.Equal(t, conversation.RoleAI, out.Messages[1].Role)
	require.Equal(t, `(fake script for "hi", grounded on 1 context block(s))`, out.Messages[1].Content)
}

func TestSendMessageEmptyInput(t *testing.T) {
	mux, store, _ := newTestMux(t, llm.NewFakeClient())
	seedConnectedItems(t, store)

	rec := do(t, mux, http.MethodPost, "/api/chat/focal/messages", map[string]string{"input": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/chat/focal/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[chatResponse](t, rec)
	require.Empty(t, out.Messages)
}

func TestSendMessageFailureFallsBackAndNotifies(t *testing.T) {
	mux, store, _ := newTestMux(t, failingGenerator{})
	seedConnectedItems(t, store)

	rec := do(t, mux, http.MethodPost, "/api/chat/focal/messages", map[string]string{"input": "hi"})
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[chatResponse](t, rec)
	require.Len(t, out.Messages, 2)
	require.Equal(t, "Sorry, I couldn't process that request.", out.Messages[1].Content)

	rec = do(t, mux, http.MethodGet, "/api/notifications/focal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notifs := decode[struct {
		Notifications []notify.Notification `json:"notifications"`
	}](t, rec)
	require.Len(t, notifs.Notifications, 1)
	require.Equal(t, notify.SeverityError, notifs.Notifications[0].Severity)
	require.Equal(t, "Script generation failed.", notifs.Notifications[0].Message)

	rec = do(t, mux, http.MethodPost, "/api/notifications/focal/"+notifs.Notifications[0].ID+"/dismiss", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/notifications/focal", nil)
	notifs = decode[struct {
		Notifications []notify.Notification `json:"notifications"`
	}](t, rec)
	require.Empty(t, notifs.Notifications)
}

func TestGetMessagesWithoutConversation(t *testing.T) {
	mux, _, _ := newTestMux(t, llm.NewFakeClient())

	rec := do(t, mux, http.MethodGet, "/api/chat/unknown/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[chatResponse](t, rec)
	require.Empty(t, out.Messages)
	require.False(t, out.Busy)
}

func TestGetContextPreview(t *testing.T) {
	mux, store, _ := newTestMux(t, llm.NewFakeClient())
	seedConnectedItems(t, store)

	rec := do(t, mux, http.MethodGet, "/api/chat/focal/context", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[struct {
		Context string `json:"context"`
	}](t, rec)
	require.Equal(t, "## T1 (text)\nhello", out.Context)

	rec = do(t, mux, http.MethodGet, "/api/chat/missing/context", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
