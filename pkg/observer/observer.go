// Package observer provides a minimal subscribe/notify abstraction carrying
// one-way textual payloads from session models to their views. Views never
// hold a back-reference from the model side.
package observer

import "sync"

// Listener receives a published action message.
type Listener func(msg string)

// Notifier broadcasts action messages to all subscribed listeners in
// subscription order. Safe for concurrent use.
type Notifier struct {
	mu        sync.Mutex
	listeners []Listener
}

// Subscribe registers a listener for future messages.
func (n *Notifier) Subscribe(l Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

// Publish delivers msg to every subscribed listener. Listeners run on the
// caller's goroutine; a slow listener delays the publisher.
func (n *Notifier) Publish(msg string) {
	n.mu.Lock()
	snapshot := make([]Listener, len(n.listeners))
	copy(snapshot, n.listeners)
	n.mu.Unlock()

	for _, l := range snapshot {
		l(msg)
	}
}
