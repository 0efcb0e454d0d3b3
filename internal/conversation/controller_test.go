package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"scriptdeck/internal/llm"
	"scriptdeck/internal/workspace"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type stubGenerator struct {
	mu       sync.Mutex
	err      error
	script   string
	gotReqs  []llm.Request
	blocking chan struct{} // when non-nil, GenerateScript waits for a close
}

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) GenerateScript(_ context.Context, req llm.Request) (llm.Result, error) {
	g.mu.Lock()
	g.gotReqs = append(g.gotReqs, req)
	blocking := g.blocking
	g.mu.Unlock()
	if blocking != nil {
		<-blocking
	}
	if g.err != nil {
		return llm.Result{}, g.err
	}
	return llm.Result{Script: g.script}, nil
}

func (g *stubGenerator) requests() []llm.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]llm.Request, len(g.gotReqs))
	copy(out, g.gotReqs)
	return out
}

type stubNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *stubNotifier) Notify(_ context.Context, conversationID, severity, message string) {
	n.mu.Lock()
	n.calls = append(n.calls, severity+":"+message)
	n.mu.Unlock()
	_ = conversationID
}

func (n *stubNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func newTestController(t *testing.T, gen Generator, notifier Notifier) *Controller {
	t.Helper()
	items := workspace.NewMemoryStore()
	ctx := context.Background()
	_, err := items.Put(ctx, workspace.WindowItem{
		ID:          "focal",
		Title:       "Focal",
		Type:        "text",
		Connections: []workspace.Connection{{To: "B"}},
	})
	require.NoError(t, err)
	_, err = items.Put(ctx, workspace.WindowItem{
		ID: "B", Title: "T1", Type: "text", Content: "hello",
	})
	require.NoError(t, err)

	ctrl, err := NewController("conv-1", "focal", gen, notifier, items, nil)
	require.NoError(t, err)
	return ctrl
}

func TestSubmitEmptyInputIsNoOp(t *testing.T) {
	gen := &stubGenerator{script: "out"}
	ctrl := newTestController(t, gen, nil)

	for _, input := range []string{"", "   ", "\n\t"} {
		err := ctrl.Submit(context.Background(), input)
		require.ErrorIs(t, err, ErrEmptyInput)
	}
	require.Empty(t, ctrl.Messages())
	require.False(t, ctrl.Busy())
	require.Empty(t, gen.requests())
}

func TestSubmitAppendsUserThenAI(t *testing.T) {
	gen := &stubGenerator{script: "generated script"}
	ctrl := newTestController(t, gen, nil)

	require.False(t, ctrl.Busy())
	require.NoError(t, ctrl.Submit(context.Background(), "write me a scene"))
	require.False(t, ctrl.Busy())

	msgs := ctrl.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, RoleUser, msgs[0].Role)
	require.Equal(t, "write me a scene", msgs[0].Content)
	require.Equal(t, RoleAI, msgs[1].Role)
	require.Equal(t, "generated script", msgs[1].Content)

	reqs := gen.requests()
	require.Len(t, reqs, 1)
	require.Equal(t, "write me a scene", reqs[0].Prompt)
	require.Equal(t, "## T1 (text)\nhello", reqs[0].Context)
}

func TestSubmitFailureAppendsFallbackAndNotifies(t *testing.T) {
	gen := &stubGenerator{err: errors.New("service unavailable")}
	notifier := &stubNotifier{}
	ctrl := newTestController(t, gen, notifier)

	require.NoError(t, ctrl.Submit(context.Background(), "hello"))

	msgs := ctrl.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, RoleUser, msgs[0].Role)
	require.Equal(t, RoleAI, msgs[1].Role)
	require.Equal(t, "Sorry, I couldn't process that request.", msgs[1].Content)
	require.Equal(t, 1, notifier.count())
	require.False(t, ctrl.Busy())
}

func TestSubmitWhileBusyIsRejected(t *testing.T) {
	release := make(chan struct{})
	gen := &stubGenerator{script: "out", blocking: release}
	ctrl := newTestController(t, gen, nil)

	done := make(chan error, 1)
	go func() { done <- ctrl.Submit(context.Background(), "first") }()

	require.Eventually(t, ctrl.Busy, time.Second, time.Millisecond)

	err := ctrl.Submit(context.Background(), "second")
	require.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)

	msgs := ctrl.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, "first", msgs[0].Content)
	require.False(t, ctrl.Busy())
	require.Len(t, gen.requests(), 1)
}

func TestSubmitClearsPendingInput(t *testing.T) {
	gen := &stubGenerator{script: "out"}
	ctrl := newTestController(t, gen, nil)

	ctrl.SetInput("draft text")
	require.Equal(t, "draft text", ctrl.Input())
	require.NoError(t, ctrl.Submit(context.Background(), "draft text"))
	require.Equal(t, "", ctrl.Input())
}

func TestWatchReceivesAppendsAndBusyTransitions(t *testing.T) {
	gen := &stubGenerator{script: "out"}
	ctrl := newTestController(t, gen, nil)

	snapshot, events, cancel := ctrl.Watch()
	defer cancel()
	require.Empty(t, snapshot)

	require.NoError(t, ctrl.Submit(context.Background(), "hi"))

	var types []string
	timeout := time.After(time.Second)
	for len(types) < 4 {
		select {
		case ev := <-events:
			types = append(types, ev.Type)
		case <-timeout:
			t.Fatalf("timed out waiting for events, got %v", types)
		}
	}
	require.Equal(t, []string{"busy", "message", "message", "busy"}, types)
}

func TestManagerEnsureIsIdempotentAndDiscardable(t *testing.T) {
	gen := &stubGenerator{script: "out"}
	items := workspace.NewMemoryStore()
	m := NewManager(gen, nil, items, nil)

	a, err := m.Ensure("item-1")
	require.NoError(t, err)
	b, err := m.Ensure("item-1")
	require.NoError(t, err)
	require.Same(t, a, b)

	_, err = m.Ensure("  ")
	require.Error(t, err)

	m.Discard("item-1")
	_, ok := m.Get("item-1")
	require.False(t, ok)
}
