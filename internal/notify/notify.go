// Package notify holds per-user dismissible notifications.
package notify

import (
	"sync"
	"time"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is one user-visible message.
type Notification struct {
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// maxPerUser bounds the queue so an unread backlog cannot grow without
// limit; oldest entries are dropped first.
const maxPerUser = 50

// Center queues notifications per user until the client drains them.
type Center struct {
	mu     sync.Mutex
	queues map[int64][]Notification
}

// NewCenter creates an empty notification center.
func NewCenter() *Center {
	return &Center{queues: make(map[int64][]Notification)}
}

// Success queues a success notification for a user.
func (c *Center) Success(ownerID int64, message string) {
	c.push(ownerID, KindSuccess, message)
}

// Error queues an error notification for a user.
func (c *Center) Error(ownerID int64, message string) {
	c.push(ownerID, KindError, message)
}

// Drain returns and removes all pending notifications for a user, oldest
// first. Draining is how the client dismisses them.
func (c *Center) Drain(ownerID int64) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending := c.queues[ownerID]
	delete(c.queues, ownerID)
	if pending == nil {
		pending = []Notification{}
	}
	return pending
}

// Clear drops all pending notifications for a user, e.g. on sign-out.
func (c *Center) Clear(ownerID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.queues, ownerID)
}

func (c *Center) push(ownerID int64, kind Kind, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := append(c.queues[ownerID], Notification{
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if len(q) > maxPerUser {
		q = q[len(q)-maxPerUser:]
	}
	c.queues[ownerID] = q
}
