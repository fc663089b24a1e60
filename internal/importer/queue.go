package importer

import (
	"sync"

	"github.com/vmunix/tanko/internal/pairing"
)

// Queue holds import items in arrival order. Completed items drop out on
// their own; errored items stay listed, with their message, until removed
// or cleared.
type Queue struct {
	mu    sync.Mutex
	items []*Item
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends a source at the tail and returns the new item and its
// position.
func (q *Queue) Enqueue(src *pairing.Source) (*Item, int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	it := newItem(src)
	q.items = append(q.items, it)
	return it, len(q.items) - 1
}

// Items returns a point-in-time copy of the queue for display.
func (q *Queue) Items() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Item, len(q.items))
	for i, it := range q.items {
		out[i] = *it
	}
	return out
}

// Len returns the number of items currently listed.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Remove takes one item out of the queue. Only items still waiting or
// already errored can go; an item mid-flight reports ErrItemActive.
func (q *Queue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, it := range q.items {
		if it.Source.ID != id {
			continue
		}
		if it.Status != StatusQueued && it.Status != StatusError {
			return ErrItemActive
		}
		q.items = append(q.items[:i], q.items[i+1:]...)
		return nil
	}
	return ErrItemNotFound
}

// Clear drops every waiting and errored item and returns how many went.
// Items being processed are left alone.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.items[:0]
	removed := 0
	for _, it := range q.items {
		if it.Status == StatusQueued || it.Status == StatusError {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	q.items = kept
	return removed
}

// next returns the first waiting item, or nil when the drain is done.
// Errored items are passed over, not retried.
func (q *Queue) next() *Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, it := range q.items {
		if it.Status == StatusQueued {
			return it
		}
	}
	return nil
}

// pending snapshots the waiting items in order.
func (q *Queue) pending() []*Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*Item
	for _, it := range q.items {
		if it.Status == StatusQueued {
			out = append(out, it)
		}
	}
	return out
}

// advance moves an item to target if the transition is legal, dropping it
// from the queue once it completes. Items processed outside the queue
// share this path so every status change happens under one lock.
func (q *Queue) advance(it *Item, target Status) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !it.Status.CanTransitionTo(target) {
		return
	}
	it.Status = target
	if target == StatusComplete {
		q.removeLocked(it)
	}
}

// fail marks an item errored with the message shown to the user.
func (q *Queue) fail(it *Item, msg string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if it.Status.CanTransitionTo(StatusError) {
		it.Status = StatusError
	}
	it.Error = msg
}

// progress records extraction progress as a 0-100 percentage.
func (q *Queue) progress(it *Item, pct int) {
	q.mu.Lock()
	it.Progress = pct
	q.mu.Unlock()
}

func (q *Queue) removeLocked(target *Item) {
	for i, it := range q.items {
		if it == target {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}
