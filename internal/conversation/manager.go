package conversation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager binds focal item IDs to their conversation controllers. One
// controller exists per open panel; it is created lazily and discarded when
// the panel (or its item) goes away. Nothing is persisted.
type Manager struct {
	gen      Generator
	notifier Notifier
	items    ItemSource
	logger   *zap.Logger

	mu     sync.RWMutex
	byItem map[string]*Controller
}

func NewManager(gen Generator, notifier Notifier, items ItemSource, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		gen:      gen,
		notifier: notifier,
		items:    items,
		logger:   logger,
		byItem:   make(map[string]*Controller),
	}
}

// Ensure returns the controller for the focal item, creating it on first use.
func (m *Manager) Ensure(focalID string) (*Controller, error) {
	if m == nil {
		return nil, fmt.Errorf("manager is nil")
	}
	focalID = strings.TrimSpace(focalID)
	if focalID == "" {
		return nil, fmt.Errorf("focal item id is required")
	}

	m.mu.RLock()
	ctrl := m.byItem[focalID]
	m.mu.RUnlock()
	if ctrl != nil {
		return ctrl, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ctrl := m.byItem[focalID]; ctrl != nil {
		return ctrl, nil
	}
	ctrl, err := NewController(uuid.NewString(), focalID, m.gen, m.notifier, m.items, m.logger)
	if err != nil {
		return nil, err
	}
	m.byItem[focalID] = ctrl
	return ctrl, nil
}

// Get returns the controller for the focal item if one exists.
func (m *Manager) Get(focalID string) (*Controller, bool) {
	if m == nil {
		return nil, false
	}
	m.mu.RLock()
	ctrl, ok := m.byItem[strings.TrimSpace(focalID)]
	m.mu.RUnlock()
	return ctrl, ok
}

// Discard drops the controller for the focal item, if any.
func (m *Manager) Discard(focalID string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	delete(m.byItem, strings.TrimSpace(focalID))
	m.mu.Unlock()
}
