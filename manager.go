package keygram

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateBot is returned when a second bot registers under a taken id.
var ErrDuplicateBot = errors.New("keygram: bot id already registered")

// Manager tracks the live bots of a process by identity. Bots join it
// through WithManager and leave it on Stop.
type Manager struct {
	mu   sync.RWMutex
	bots map[int64]*Bot
	// order holds ids newest first.
	order []int64
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{bots: make(map[int64]*Bot)}
}

// Register adds b. Registering the same bot twice is a no-op.
func (m *Manager) Register(b *Bot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bots == nil {
		m.bots = make(map[int64]*Bot)
	}
	if cur, ok := m.bots[b.id]; ok {
		if cur == b {
			return nil
		}
		return fmt.Errorf("%w: %d", ErrDuplicateBot, b.id)
	}
	m.bots[b.id] = b
	m.order = append([]int64{b.id}, m.order...)
	return nil
}

// Unregister removes the bot with the given id, if any.
func (m *Manager) Unregister(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bots[id]; !ok {
		return
	}
	delete(m.bots, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Lookup returns the bot registered under id.
func (m *Manager) Lookup(id int64) (*Bot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bots[id]
	return b, ok
}

// Latest returns the most recently registered bot.
func (m *Manager) Latest() (*Bot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.order) == 0 {
		return nil, false
	}
	return m.bots[m.order[0]], true
}

// IDs returns the registered ids, newest first.
func (m *Manager) IDs() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int64(nil), m.order...)
}
