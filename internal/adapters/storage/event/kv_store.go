package event

import (
	"context"
	"slices"
	"sync"
	"time"

	"artcor/internal/adapters/storage"
	domain "artcor/internal/domain/event"
	"artcor/internal/domain/failure"
)

// KVStore keeps events in memory and writes the whole array to a single blob
// on every change. A failed write leaves the in-memory events as they were.
type KVStore struct {
	kv  storage.KV
	key string

	mu     sync.RWMutex
	events []domain.Event
}

// Compile-time check that *KVStore satisfies Store.
var _ Store = (*KVStore)(nil)

// NewKVStore loads the events stored under key.
// PRE: kv is open; key is non-empty
// POST: Returns a store holding the persisted events, empty if the key is absent
func NewKVStore(ctx context.Context, kv storage.KV, key string) (*KVStore, error) {
	events, err := storage.LoadCollection[domain.Event](ctx, kv, key)
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Attendees = domain.NormalizeAttendees(events[i].Attendees)
	}
	return &KVStore{kv: kv, key: key, events: events}, nil
}

// GetByID retrieves an Event by its ID.
// PRE: none
// POST: Returns a copy of the entity or a *failure.NotFoundError
func (s *KVStore) GetByID(_ context.Context, id int) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return clone(s.events[i]), nil
	}
	return domain.Event{}, &failure.NotFoundError{Kind: "event", ID: id}
}

// Save inserts or fully replaces an Event, keeping the position of an existing record.
// PRE: value is valid
// POST: Events persisted with value; unchanged on error
func (s *KVStore) Save(ctx context.Context, value domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value = clone(value)
	next := slices.Clone(s.events)
	if i := s.indexOf(value.ID); i >= 0 {
		next[i] = value
	} else {
		next = append(next, value)
	}
	return s.commit(ctx, next)
}

// Delete removes an Event by ID.
// PRE: none
// POST: Events persisted without id, or *failure.NotFoundError
func (s *KVStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return &failure.NotFoundError{Kind: "event", ID: id}
	}
	next := slices.Delete(slices.Clone(s.events), i, i+1)
	return s.commit(ctx, next)
}

// All returns every event in store (insertion) order.
// PRE: none
// POST: Returns deep copies
func (s *KVStore) All(_ context.Context) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, len(s.events))
	for i, e := range s.events {
		out[i] = clone(e)
	}
	return out, nil
}

// List returns matching events, newest date first; equal dates keep store order.
// PRE: filter.Month is only honoured together with filter.Year
// POST: Returns deep copies
func (s *KVStore) List(_ context.Context, filter ListFilter) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Event, 0, len(s.events))
	for _, e := range s.events {
		if filter.Year != 0 && e.Date.Year != filter.Year {
			continue
		}
		if filter.Year != 0 && filter.Month != 0 && e.Date.Month != filter.Month {
			continue
		}
		if filter.AttendeeID != 0 && !e.Attends(filter.AttendeeID) {
			continue
		}
		out = append(out, clone(e))
	}
	domain.ByDateDesc(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// ListByYear returns the events of one year, newest first.
func (s *KVStore) ListByYear(ctx context.Context, year int) ([]domain.Event, error) {
	return s.List(ctx, ListFilter{Year: year})
}

// ListByYearMonth returns the events of one month, newest first.
func (s *KVStore) ListByYearMonth(ctx context.Context, year int, month time.Month) ([]domain.Event, error) {
	return s.List(ctx, ListFilter{Year: year, Month: month})
}

// ListByAttendee returns the events whose attendee set contains memberID, newest first.
func (s *KVStore) ListByAttendee(ctx context.Context, memberID int) ([]domain.Event, error) {
	return s.List(ctx, ListFilter{AttendeeID: memberID})
}

// UniqueYears returns the distinct years that have events, descending.
// PRE: none
// POST: No duplicates; empty when there are no events
func (s *KVStore) UniqueYears(_ context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	years := make([]int, 0)
	for _, e := range s.events {
		if !slices.Contains(years, e.Date.Year) {
			years = append(years, e.Date.Year)
		}
	}
	slices.Sort(years)
	slices.Reverse(years)
	return years, nil
}

// commit persists next and then swaps it in.
// PRE: s.mu is held for writing
func (s *KVStore) commit(ctx context.Context, next []domain.Event) error {
	if err := storage.SaveCollection(ctx, s.kv, s.key, next); err != nil {
		return err
	}
	s.events = next
	return nil
}

// indexOf returns the position of id, or -1.
// PRE: s.mu is held
func (s *KVStore) indexOf(id int) int {
	return slices.IndexFunc(s.events, func(e domain.Event) bool { return e.ID == id })
}

// clone copies the attendee slice so callers never share backing arrays with the store.
func clone(e domain.Event) domain.Event {
	e.Attendees = slices.Clone(e.Attendees)
	if e.Attendees == nil {
		e.Attendees = []int{}
	}
	return e
}
