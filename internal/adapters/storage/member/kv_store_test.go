package member

import (
	"context"
	"errors"
	"testing"

	"artcor/internal/adapters/storage"
	"artcor/internal/domain/failure"
	domain "artcor/internal/domain/member"
)

func newTestStore(t *testing.T, kv storage.KV) *KVStore {
	t.Helper()
	s, err := NewKVStore(context.Background(), kv, storage.DefaultMembersKey)
	if err != nil {
		t.Fatalf("NewKVStore: %v", err)
	}
	return s
}

// brokenKV fails every Put after the first n.
type brokenKV struct {
	*storage.MemoryKV
	allowed int
}

// Put fails once the allowance is spent.
// PRE: none
// POST: stores value while allowance remains
func (b *brokenKV) Put(ctx context.Context, key string, value []byte) error {
	if b.allowed <= 0 {
		return errors.New("write failed")
	}
	b.allowed--
	return b.MemoryKV.Put(ctx, key, value)
}

// TestKVStore_RoundTrip verifies a saved roster reloads unchanged.
func TestKVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	s := newTestStore(t, kv)

	want := []domain.Member{
		{ID: 1, Name: "Ana", Role: "Soprano"},
		{ID: 2, Name: "Luis", Role: "Tenor"},
	}
	for _, m := range want {
		if err := s.Save(ctx, m); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	reloaded := newTestStore(t, kv)
	got, err := reloaded.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("member[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// TestKVStore_EmptyKey verifies a missing blob loads as an empty roster.
func TestKVStore_EmptyKey(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryKV())
	got, err := s.List(context.Background(), ListFilter{})
	if err != nil || len(got) != 0 {
		t.Errorf("List = %v, %v; want empty", got, err)
	}
}

// TestKVStore_SaveReplacesInPlace verifies upsert keeps position.
func TestKVStore_SaveReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemoryKV())
	s.Save(ctx, domain.Member{ID: 1, Name: "Ana", Role: "Soprano"})
	s.Save(ctx, domain.Member{ID: 2, Name: "Luis", Role: "Tenor"})
	s.Save(ctx, domain.Member{ID: 1, Name: "Ana María", Role: "Alto"})

	got, _ := s.List(ctx, ListFilter{})
	if len(got) != 2 || got[0].Name != "Ana María" || got[1].ID != 2 {
		t.Errorf("List = %+v", got)
	}
}

// TestKVStore_GetByID_NotFound verifies the error kind for unknown ids.
func TestKVStore_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryKV())
	_, err := s.GetByID(context.Background(), 42)
	var nf *failure.NotFoundError
	if !errors.As(err, &nf) || nf.ID != 42 || nf.Kind != "member" {
		t.Errorf("err = %v, want NotFoundError{member 42}", err)
	}
	if err := s.Delete(context.Background(), 42); !errors.Is(err, failure.ErrNotFound) {
		t.Errorf("Delete err = %v, want ErrNotFound", err)
	}
}

// TestKVStore_FindByName verifies case-insensitive lookup.
func TestKVStore_FindByName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemoryKV())
	s.Save(ctx, domain.Member{ID: 5, Name: "Ana", Role: "Soprano"})

	m, ok, err := s.FindByName(ctx, " ANA ")
	if err != nil || !ok || m.ID != 5 {
		t.Errorf("FindByName = %+v, %v, %v", m, ok, err)
	}
	if _, ok, _ := s.FindByName(ctx, "Eva"); ok {
		t.Error("FindByName(Eva) should miss")
	}
}

// TestKVStore_List_Filter verifies role filtering and paging.
func TestKVStore_List_Filter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemoryKV())
	s.Save(ctx, domain.Member{ID: 1, Name: "A", Role: "Soprano"})
	s.Save(ctx, domain.Member{ID: 2, Name: "B", Role: "Tenor"})
	s.Save(ctx, domain.Member{ID: 3, Name: "C", Role: "soprano"})

	tests := []struct {
		name   string
		filter ListFilter
		want   []int
	}{
		{"all", ListFilter{}, []int{1, 2, 3}},
		{"role", ListFilter{Role: "SOPRANO"}, []int{1, 3}},
		{"limit", ListFilter{Limit: 2}, []int{1, 2}},
		{"offset", ListFilter{Offset: 1}, []int{2, 3}},
		{"offset past end", ListFilter{Offset: 9}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := s.List(ctx, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

// TestKVStore_FailedWriteLeavesStateUnchanged verifies copy-then-swap.
func TestKVStore_FailedWriteLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	kv := &brokenKV{MemoryKV: storage.NewMemoryKV(), allowed: 1}
	s := newTestStore(t, kv)

	if err := s.Save(ctx, domain.Member{ID: 1, Name: "Ana", Role: "Soprano"}); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := s.Save(ctx, domain.Member{ID: 2, Name: "Luis", Role: "Tenor"}); err == nil {
		t.Fatal("expected second Save to fail")
	}
	if err := s.Delete(ctx, 1); err == nil {
		t.Fatal("expected Delete to fail")
	}

	got, _ := s.List(ctx, ListFilter{})
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("List after failures = %+v, want only member 1", got)
	}
}
