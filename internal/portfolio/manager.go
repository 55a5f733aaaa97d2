package portfolio

import "sync"

// Manager hands out one aggregator per user, so the in-memory collection
// and totals survive across requests within a server instance.
type Manager struct {
	store    Store
	notifier Notifier

	mu      sync.Mutex
	byOwner map[int64]*Aggregator
}

// NewManager creates a new Manager.
func NewManager(store Store, notifier Notifier) *Manager {
	return &Manager{
		store:    store,
		notifier: notifier,
		byOwner:  make(map[int64]*Aggregator),
	}
}

// ForOwner returns the aggregator for a user, creating and loading it on
// first use. A load failure on first use is returned and the aggregator
// is not cached, so the next call retries.
func (m *Manager) ForOwner(ownerID int64) (*Aggregator, error) {
	m.mu.Lock()
	if agg, ok := m.byOwner[ownerID]; ok {
		m.mu.Unlock()
		return agg, nil
	}
	m.mu.Unlock()

	agg := NewAggregator(m.store, m.notifier, ownerID)
	if err := agg.Load(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byOwner[ownerID]; ok {
		return existing, nil
	}
	m.byOwner[ownerID] = agg
	return agg, nil
}

// Evict drops a user's cached aggregator, e.g. on sign-out.
func (m *Manager) Evict(ownerID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byOwner, ownerID)
}
