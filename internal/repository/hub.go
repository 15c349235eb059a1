package repository

import (
	"fmt"
	"sync"
)

// ChangeKind describes what happened to the stored notes
type ChangeKind int

const (
	ChangeInsert ChangeKind = iota
	ChangeTrash
	ChangeRestore
	ChangeDelete
	// ChangeExternal is reported when another process modified the database
	ChangeExternal
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeTrash:
		return "trash"
	case ChangeRestore:
		return "restore"
	case ChangeDelete:
		return "delete"
	case ChangeExternal:
		return "external"
	}
	return fmt.Sprintf("change(%d)", int(k))
}

// Change is delivered to subscribers after a mutation commits
type Change struct {
	Kind ChangeKind
	IDs  []int64
}

// Hub fans changes out to subscribers. Subscribers are called synchronously
// on the goroutine that broadcasts, so they must not block.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Change)
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[int]func(Change))}
}

// Subscribe registers fn and returns a function that removes it
func (h *Hub) Subscribe(fn func(Change)) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Broadcast delivers c to every subscriber
func (h *Hub) Broadcast(c Change) {
	h.mu.RLock()
	fns := make([]func(Change), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

// SubscriberCount returns the number of registered subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
