package member

import (
	"context"
	"slices"
	"strings"
	"sync"

	"artcor/internal/adapters/storage"
	"artcor/internal/domain/failure"
	domain "artcor/internal/domain/member"
)

// KVStore keeps the roster in memory and writes the whole array to a single
// blob on every change. A failed write leaves the in-memory roster as it was.
type KVStore struct {
	kv  storage.KV
	key string

	mu      sync.RWMutex
	members []domain.Member
}

// Compile-time check that *KVStore satisfies Store.
var _ Store = (*KVStore)(nil)

// NewKVStore loads the roster stored under key.
// PRE: kv is open; key is non-empty
// POST: Returns a store holding the persisted roster, empty if the key is absent
func NewKVStore(ctx context.Context, kv storage.KV, key string) (*KVStore, error) {
	members, err := storage.LoadCollection[domain.Member](ctx, kv, key)
	if err != nil {
		return nil, err
	}
	return &KVStore{kv: kv, key: key, members: members}, nil
}

// GetByID retrieves a Member by its ID.
// PRE: none
// POST: Returns the entity or a *failure.NotFoundError
func (s *KVStore) GetByID(_ context.Context, id int) (domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.members[i], nil
	}
	return domain.Member{}, &failure.NotFoundError{Kind: "member", ID: id}
}

// FindByName returns the first member whose name matches case-insensitively.
// PRE: none
// POST: ok is false when no member matches
func (s *KVStore) FindByName(_ context.Context, name string) (domain.Member, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.SameName(name) {
			return m, true, nil
		}
	}
	return domain.Member{}, false, nil
}

// Save inserts or replaces a Member, keeping the position of an existing record.
// PRE: value is valid
// POST: Roster persisted with value; unchanged on error
func (s *KVStore) Save(ctx context.Context, value domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(s.members)
	if i := s.indexOf(value.ID); i >= 0 {
		next[i] = value
	} else {
		next = append(next, value)
	}
	return s.commit(ctx, next)
}

// Delete removes a Member by ID.
// PRE: none
// POST: Roster persisted without id, or *failure.NotFoundError
func (s *KVStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return &failure.NotFoundError{Kind: "member", ID: id}
	}
	next := slices.Delete(slices.Clone(s.members), i, i+1)
	return s.commit(ctx, next)
}

// List returns members in insertion order.
// PRE: filter.Limit and filter.Offset are non-negative
// POST: Returns a copy; callers may modify it freely
func (s *KVStore) List(_ context.Context, filter ListFilter) ([]domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Member, 0, len(s.members))
	for _, m := range s.members {
		if filter.Role != "" && !strings.EqualFold(m.Role, filter.Role) {
			continue
		}
		out = append(out, m)
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []domain.Member{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// commit persists next and then swaps it in.
// PRE: s.mu is held for writing
func (s *KVStore) commit(ctx context.Context, next []domain.Member) error {
	if err := storage.SaveCollection(ctx, s.kv, s.key, next); err != nil {
		return err
	}
	s.members = next
	return nil
}

// indexOf returns the position of id, or -1.
// PRE: s.mu is held
func (s *KVStore) indexOf(id int) int {
	return slices.IndexFunc(s.members, func(m domain.Member) bool { return m.ID == id })
}
