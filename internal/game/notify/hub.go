// Package notify provides a process-local change notification hub. Observers
// carry no payload; they are expected to re-read whatever state they render.
package notify

import "github.com/google/uuid"

// Handle identifies a subscription and is used to cancel it.
type Handle string

// Observer is invoked once per published change.
type Observer func()

type subscription struct {
	handle Handle
	fn     Observer
}

// Hub dispatches changes to its observers synchronously in registration order.
//
// Hub is not safe for concurrent use; the owner serializes access.
type Hub struct {
	subs []subscription
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers fn and returns its handle.
//
// Precondition: fn must be non-nil.
func (h *Hub) Subscribe(fn Observer) Handle {
	handle := Handle(uuid.New().String())
	h.subs = append(h.subs, subscription{handle: handle, fn: fn})
	return handle
}

// Unsubscribe removes the observer registered under handle.
//
// Postcondition: returns false if handle was not registered.
func (h *Hub) Unsubscribe(handle Handle) bool {
	for i, s := range h.subs {
		if s.handle == handle {
			h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish invokes every observer registered before the call. Observers added
// or removed during dispatch do not change the current dispatch.
func (h *Hub) Publish() {
	snapshot := make([]subscription, len(h.subs))
	copy(snapshot, h.subs)
	for _, s := range snapshot {
		s.fn()
	}
}

// Len returns the number of registered observers.
func (h *Hub) Len() int {
	return len(h.subs)
}
