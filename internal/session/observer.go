// Package session implements the client-facing authentication-state model:
// a broadcaster of the current authenticated principal, explicit
// subscription handles, and the route-guard decision logic.
package session

import (
	"sync"

	"investpro/internal/models"
)

// Principal is the locally held representation of the currently
// authenticated user. At most one principal exists at any time.
type Principal struct {
	UID         int64  `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// PrincipalFromUser builds a Principal from a stored user record.
func PrincipalFromUser(u *models.User) *Principal {
	if u == nil {
		return nil
	}
	return &Principal{
		UID:         u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
	}
}

// Listener receives the current principal (or nil) on every auth-state
// change. Listeners run synchronously on the publishing goroutine.
type Listener func(*Principal)

// Broadcaster republishes authentication-state changes to subscribers.
// It starts in the loading state; the first Publish or Clear resolves it.
// The current value is replaced wholesale on every notification, never
// merged.
type Broadcaster struct {
	mu        sync.Mutex
	loading   bool
	current   *Principal
	listeners map[int]Listener
	nextID    int
}

// NewBroadcaster creates a Broadcaster in the loading state with no
// current principal.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		loading:   true,
		listeners: make(map[int]Listener),
	}
}

// Publish replaces the current principal and notifies all subscribers.
// The first call (with any value, including nil) clears the loading flag.
func (b *Broadcaster) Publish(p *Principal) {
	b.mu.Lock()
	b.loading = false
	b.current = p
	notify := make([]Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		notify = append(notify, l)
	}
	b.mu.Unlock()

	for _, l := range notify {
		l(p)
	}
}

// Clear publishes a nil principal (signed out).
func (b *Broadcaster) Clear() {
	b.Publish(nil)
}

// Current returns the current principal and whether the broadcaster is
// still awaiting its first notification.
func (b *Broadcaster) Current() (p *Principal, loading bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current, b.loading
}

// Subscribe registers a listener and returns its subscription handle.
// Each Subscribe call performs exactly one registration; releasing it is
// the caller's responsibility via Subscription.Close.
func (b *Broadcaster) Subscribe(l Listener) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = l

	return &Subscription{broadcaster: b, id: id}
}

// ListenerCount returns the number of active subscriptions.
func (b *Broadcaster) ListenerCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

func (b *Broadcaster) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.listeners, id)
}

// Subscription is the handle for one listener registration. Close must be
// called on every exit path of the owning component; leaving a
// subscription open across remounts leaks the listener.
type Subscription struct {
	broadcaster *Broadcaster
	id          int
	once        sync.Once
}

// Close deregisters the listener. It is idempotent.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broadcaster.unsubscribe(s.id)
	})
}
