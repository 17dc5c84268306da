package store

import (
	"sync"
)

const subscriberBuffer = 100

// MemoryStore is an in-memory implementation of [Store].
//
// Panels are keyed by name; an update replaces the previous panel, so the
// last update to arrive wins. Subscribers receive updates via buffered
// channels and miss updates when their buffer is full.
type MemoryStore struct {
	mu     sync.RWMutex
	panels map[string]Panel
	order  []string

	subMu       sync.RWMutex
	subscribers map[chan Panel]struct{}
}

// NewMemoryStore creates a new in-memory [Store] implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		panels:      make(map[string]Panel),
		subscribers: make(map[chan Panel]struct{}),
	}
}

// Register adds panel at the end of the display order unless a panel with
// the same name is already known.
func (m *MemoryStore) Register(panel Panel) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.panels[panel.Name]; exists {
		return
	}
	m.panels[panel.Name] = clonePanel(panel)
	m.order = append(m.order, panel.Name)
}

// Update stores panel and notifies all subscribers.
func (m *MemoryStore) Update(panel Panel) {
	panel = clonePanel(panel)

	m.mu.Lock()
	if _, exists := m.panels[panel.Name]; !exists {
		m.order = append(m.order, panel.Name)
	}
	m.panels[panel.Name] = panel
	m.mu.Unlock()

	m.notifySubscribers(panel)
}

// GetAll returns a copy of all panels in display order.
func (m *MemoryStore) GetAll() []Panel {
	m.mu.RLock()
	defer m.mu.RUnlock()

	panels := make([]Panel, 0, len(m.order))
	for _, name := range m.order {
		panels = append(panels, clonePanel(m.panels[name]))
	}
	return panels
}

// Subscribe creates a new subscription and returns a channel for receiving
// updates. The channel has a buffer of 100 panels.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan Panel {
	ch := make(chan Panel, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan Panel) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends panel to all active subscribers without blocking.
func (m *MemoryStore) notifySubscribers(panel Panel) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- panel:
		default:
			// subscriber is slow, drop the message
		}
	}
}

// clonePanel copies the mutable fields so callers cannot change stored state.
func clonePanel(p Panel) Panel {
	if p.Labels != nil {
		labels := make(map[string]string, len(p.Labels))
		for k, v := range p.Labels {
			labels[k] = v
		}
		p.Labels = labels
	}
	if p.Entries != nil {
		p.Entries = append(p.Entries[:0:0], p.Entries...)
	}
	return p
}
