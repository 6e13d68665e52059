package ident

import "sync"

// Allocator hands out integer ids shared by members and events.
// Seeded past every id already in use, it only moves forward, so ids freed by
// a deletion are never handed out again within the session.
// INVARIANT: every id returned by Next is greater than every id observed or returned before
type Allocator struct {
	mu   sync.Mutex
	next int
}

// NewAllocator returns an allocator whose first id is max(existing)+1, or 1.
// PRE: none
// POST: Next() returns an id strictly greater than every id in existing
func NewAllocator(existing ...[]int) *Allocator {
	a := &Allocator{next: 1}
	for _, ids := range existing {
		for _, id := range ids {
			a.observe(id)
		}
	}
	return a
}

// Next returns a fresh id.
// PRE: none
// POST: Returned id is unique among all ids seen by this allocator
func (a *Allocator) Next() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.next
	a.next++
	return id
}

// Observe records an id allocated elsewhere so Next never repeats it.
func (a *Allocator) Observe(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observe(id)
}

// Peek returns the id the next call to Next will produce.
func (a *Allocator) Peek() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next
}

func (a *Allocator) observe(id int) {
	if id >= a.next {
		a.next = id + 1
	}
}
