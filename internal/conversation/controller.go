// Package conversation owns the per-panel chat state: an append-only message
// log, the pending input text and a single-flight busy flag gating the one
// outbound generation call per turn.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"scriptdeck/internal/contextbuild"
	"scriptdeck/internal/llm"
	"scriptdeck/internal/notify"
	"scriptdeck/internal/workspace"
)

// fallbackReply is appended as the AI turn when the generation call fails,
// so the log stays a complete turn-by-turn record.
const fallbackReply = "Sorry, I couldn't process that request."

var (
	// ErrEmptyInput marks a blank submission; the controller treats it as a
	// no-op guard, not a failure.
	ErrEmptyInput = errors.New("conversation: input is empty")
	// ErrBusy marks a submission while a request is already in flight.
	ErrBusy = errors.New("conversation: a request is already in flight")
)

// Generator issues one generation call. *llm clients satisfy this.
type Generator interface {
	Name() string
	GenerateScript(ctx context.Context, req llm.Request) (llm.Result, error)
}

// Notifier surfaces transient user-visible notifications.
type Notifier interface {
	Notify(ctx context.Context, conversationID, severity, message string)
}

// ItemSource reads workspace items; workspace.Store satisfies it.
type ItemSource interface {
	Get(ctx context.Context, id string) (workspace.WindowItem, bool, error)
	List(ctx context.Context) ([]workspace.WindowItem, error)
}

// Event is pushed to watchers on every log append and busy transition.
type Event struct {
	Type    string   `json:"type"` // message | busy
	Message *Message `json:"message,omitempty"`
	Busy    bool     `json:"busy"`
}

// Controller runs one conversation about one focal window item. All state
// is process-local and discarded with the controller.
type Controller struct {
	id      string
	focalID string

	gen      Generator
	notifier Notifier
	items    ItemSource
	logger   *zap.Logger

	busy atomic.Bool

	mu           sync.RWMutex
	messages     []Message
	pendingInput string
	subs         map[int]chan Event
	nextSub      int
}

func NewController(id, focalID string, gen Generator, notifier Notifier, items ItemSource, logger *zap.Logger) (*Controller, error) {
	focalID = strings.TrimSpace(focalID)
	if focalID == "" {
		return nil, fmt.Errorf("focal item id is required")
	}
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if items == nil {
		return nil, fmt.Errorf("item source is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		id:       strings.TrimSpace(id),
		focalID:  focalID,
		gen:      gen,
		notifier: notifier,
		items:    items,
		logger:   logger,
		subs:     make(map[int]chan Event),
	}, nil
}

func (c *Controller) ID() string      { return c.id }
func (c *Controller) FocalID() string { return c.focalID }

// Busy reports whether a generation request is in flight.
func (c *Controller) Busy() bool { return c != nil && c.busy.Load() }

// Messages returns a snapshot of the log in insertion order.
func (c *Controller) Messages() []Message {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// SetInput records the unsent input text.
func (c *Controller) SetInput(v string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.pendingInput = v
	c.mu.Unlock()
}

// Input returns the current unsent input text.
func (c *Controller) Input() string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pendingInput
}

// Submit runs one full turn: append the user message, clear the pending
// input, assemble context from the workspace as it stands right now, issue
// exactly one generation call, and append the reply or the fallback turn.
// Blank input and re-entrant submits are rejected without touching the log.
// The busy flag is cleared last on every path.
func (c *Controller) Submit(ctx context.Context, input string) error {
	if c == nil {
		return fmt.Errorf("controller is nil")
	}
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}
	// Single-flight guard. Submissions can race in from several triggers
	// (HTTP and websocket), so the flag is claimed atomically up front.
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer func() {
		c.busy.Store(false)
		c.broadcast(Event{Type: "busy", Busy: false})
	}()
	c.broadcast(Event{Type: "busy", Busy: true})

	c.append(newMessage(RoleUser, input))
	c.SetInput("")

	assembled := c.assembleContext(ctx)

	res, err := c.gen.GenerateScript(ctx, llm.Request{Prompt: input, Context: assembled})
	if err != nil {
		c.logger.Error("generation request failed",
			zap.String("provider", c.gen.Name()),
			zap.String("conversation_id", c.id),
			zap.String("item_id", c.focalID),
			zap.Error(err))
		if c.notifier != nil {
			c.notifier.Notify(ctx, c.focalID, notify.SeverityError, "Script generation failed.")
		}
		c.append(newMessage(RoleAI, fallbackReply))
		return nil
	}
	c.append(newMessage(RoleAI, res.Script))
	return nil
}

// assembleContext snapshots the workspace and renders the connected items.
// Storage trouble degrades to an empty context rather than aborting the turn.
func (c *Controller) assembleContext(ctx context.Context) string {
	focal, ok, err := c.items.Get(ctx, c.focalID)
	if err != nil || !ok {
		if err != nil {
			c.logger.Warn("focal item read failed", zap.String("item_id", c.focalID), zap.Error(err))
		}
		return ""
	}
	all, err := c.items.List(ctx)
	if err != nil {
		c.logger.Warn("workspace listing failed", zap.String("item_id", c.focalID), zap.Error(err))
		return ""
	}
	return contextbuild.Assemble(focal, all)
}

func (c *Controller) append(m Message) {
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()
	c.broadcast(Event{Type: "message", Message: &m, Busy: c.busy.Load()})
}

// Watch returns the current log and a channel of subsequent events. The
// returned cancel func must be called when the watcher goes away.
func (c *Controller) Watch() ([]Message, <-chan Event, func()) {
	if c == nil {
		return nil, nil, func() {}
	}
	ch := make(chan Event, 32)
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	snapshot := make([]Message, len(c.messages))
	copy(snapshot, c.messages)
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(ch)
		}
		c.mu.Unlock()
	}
	return snapshot, ch, cancel
}

func (c *Controller) broadcast(ev Event) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
			// slow watcher; drop rather than block the turn
		}
	}
}
