package orchestrators

import (
	"context"
	"errors"
	"slices"
	"strings"

	"artcor/internal/domain/event"
	"artcor/internal/domain/failure"
	"artcor/internal/domain/member"
)

// mockIDs implements IDAllocator for testing.
type mockIDs struct {
	next int
}

// sequenceID returns an allocator whose first id is start.
func sequenceID(start int) *mockIDs {
	return &mockIDs{next: start}
}

// Peek implements IDAllocator.
func (m *mockIDs) Peek() int { return m.next }

// Observe implements IDAllocator.
func (m *mockIDs) Observe(id int) {
	if id >= m.next {
		m.next = id + 1
	}
}

// errStoreDown is returned by mocks configured to fail writes.
var errStoreDown = errors.New("store down")

// mockMemberStore implements MemberStore for testing.
type mockMemberStore struct {
	members map[int]member.Member
	saves   int
	saveErr error
}

func newMockMemberStore(ms ...member.Member) *mockMemberStore {
	s := &mockMemberStore{members: make(map[int]member.Member)}
	for _, m := range ms {
		s.members[m.ID] = m
	}
	return s
}

// GetByID implements MemberStore.
// PRE: id > 0
// POST: returns member or *failure.NotFoundError
func (m *mockMemberStore) GetByID(_ context.Context, id int) (member.Member, error) {
	v, ok := m.members[id]
	if !ok {
		return member.Member{}, &failure.NotFoundError{Kind: "member", ID: id}
	}
	return v, nil
}

// FindByName implements MemberStore.
func (m *mockMemberStore) FindByName(_ context.Context, name string) (member.Member, bool, error) {
	for _, v := range m.members {
		if strings.EqualFold(v.Name, strings.TrimSpace(name)) {
			return v, true, nil
		}
	}
	return member.Member{}, false, nil
}

// Save implements MemberStore.
// PRE: member is valid
// POST: member is persisted
func (m *mockMemberStore) Save(_ context.Context, v member.Member) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.members[v.ID] = v
	m.saves++
	return nil
}

// Delete implements MemberStore.
func (m *mockMemberStore) Delete(_ context.Context, id int) error {
	if _, ok := m.members[id]; !ok {
		return &failure.NotFoundError{Kind: "member", ID: id}
	}
	delete(m.members, id)
	return nil
}

// mockEventStore implements EventStore and EventReferenceStore for testing.
// Events are kept in insertion order.
type mockEventStore struct {
	events  []event.Event
	saveErr error
}

func newMockEventStore(es ...event.Event) *mockEventStore {
	return &mockEventStore{events: es}
}

// GetByID implements EventStore.
func (m *mockEventStore) GetByID(_ context.Context, id int) (event.Event, error) {
	for _, e := range m.events {
		if e.ID == id {
			return e, nil
		}
	}
	return event.Event{}, &failure.NotFoundError{Kind: "event", ID: id}
}

// Save implements EventStore.
// PRE: event is valid
// POST: event replaced in place or appended
func (m *mockEventStore) Save(_ context.Context, e event.Event) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	for i := range m.events {
		if m.events[i].ID == e.ID {
			m.events[i] = e
			return nil
		}
	}
	m.events = append(m.events, e)
	return nil
}

// Delete implements EventStore.
func (m *mockEventStore) Delete(_ context.Context, id int) error {
	i := slices.IndexFunc(m.events, func(e event.Event) bool { return e.ID == id })
	if i < 0 {
		return &failure.NotFoundError{Kind: "event", ID: id}
	}
	m.events = slices.Delete(m.events, i, i+1)
	return nil
}

// All implements EventStore.
func (m *mockEventStore) All(_ context.Context) ([]event.Event, error) {
	return slices.Clone(m.events), nil
}

// ListByAttendee implements EventReferenceStore.
func (m *mockEventStore) ListByAttendee(_ context.Context, memberID int) ([]event.Event, error) {
	var out []event.Event
	for _, e := range m.events {
		if e.Attends(memberID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func mustDate(s string) event.Date {
	d, err := event.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
