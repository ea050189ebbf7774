// ABOUTME: Bounded linear undo/redo stack of whole-document snapshots
// ABOUTME: Knows nothing about mutations; callers push the documents they produce

package history

import "sync"

// DefaultLimit is the number of snapshots retained when no limit is configured
const DefaultLimit = 50

// Manager holds document snapshots and the index of the active one.
// Whenever Len() > 0, 0 <= Index() < Len().
type Manager struct {
	mu        sync.RWMutex
	snapshots []string
	index     int
	limit     int
}

// NewManager creates an empty history retaining at most limit snapshots
func NewManager(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit, index: -1}
}

// Reset replaces the whole history with a single snapshot
func (m *Manager) Reset(doc string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots = []string{doc}
	m.index = 0
}

// Push drops everything after the current index, appends doc and makes it current.
// The oldest snapshots are evicted once the limit is exceeded.
func (m *Manager) Push(doc string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots = append(m.snapshots[:m.index+1], doc)
	if over := len(m.snapshots) - m.limit; over > 0 {
		m.snapshots = append([]string(nil), m.snapshots[over:]...)
	}
	m.index = len(m.snapshots) - 1
}

// Undo steps back one snapshot. At the oldest snapshot it is a no-op and ok is false.
func (m *Manager) Undo() (doc string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index <= 0 {
		return "", false
	}
	m.index--
	return m.snapshots[m.index], true
}

// Redo steps forward one snapshot. At the newest snapshot it is a no-op and ok is false.
func (m *Manager) Redo() (doc string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index >= len(m.snapshots)-1 {
		return "", false
	}
	m.index++
	return m.snapshots[m.index], true
}

// Current returns the active snapshot
func (m *Manager) Current() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.index < 0 {
		return "", false
	}
	return m.snapshots[m.index], true
}

func (m *Manager) CanUndo() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index > 0
}

func (m *Manager) CanRedo() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index >= 0 && m.index < len(m.snapshots)-1
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snapshots)
}

// Index returns the current position, or -1 for an empty history
func (m *Manager) Index() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index
}

// Limit returns the maximum number of retained snapshots
func (m *Manager) Limit() int {
	return m.limit
}
