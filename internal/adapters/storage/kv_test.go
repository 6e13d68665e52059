package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newSQLiteTestKV(t *testing.T) KV {
	t.Helper()
	db := openTestDB(t)
	if err := InitDB(context.Background(), db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return NewSQLiteKV(NewTimedDB(db, nil, 0))
}

// TestKV_Contract runs the same checks against every KV implementation.
func TestKV_Contract(t *testing.T) {
	impls := []struct {
		name string
		kv   func(t *testing.T) KV
	}{
		{"memory", func(*testing.T) KV { return NewMemoryKV() }},
		{"sqlite", newSQLiteTestKV},
		{"instrumented", func(*testing.T) KV { return NewInstrumentedKV(NewMemoryKV(), "memory", nil) }},
	}
	for _, impl := range impls {
		t.Run(impl.name, func(t *testing.T) {
			ctx := context.Background()
			kv := impl.kv(t)

			if _, err := kv.Get(ctx, "artcor_events"); !errors.Is(err, ErrKeyNotFound) {
				t.Fatalf("Get missing err = %v, want ErrKeyNotFound", err)
			}
			if err := kv.Put(ctx, "artcor_events", []byte(`[{"id":1}]`)); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if err := kv.Put(ctx, "artcor_events", []byte(`[]`)); err != nil {
				t.Fatalf("Put overwrite: %v", err)
			}
			got, err := kv.Get(ctx, "artcor_events")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != "[]" {
				t.Errorf("Get = %s, want []", got)
			}
		})
	}
}

// TestMemoryKV_CopiesValues verifies callers cannot alias stored blobs.
func TestMemoryKV_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	buf := []byte("abc")
	kv.Put(ctx, "k", buf)
	buf[0] = 'x'

	got, _ := kv.Get(ctx, "k")
	got[1] = 'y'
	again, _ := kv.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value = %s, want abc", again)
	}
}

type failingKV struct{ MemoryKV }

// Put always fails.
// PRE: none
// POST: returns an error, stores nothing
func (f *failingKV) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

// TestInstrumentedKV_CountsErrors verifies failures are counted per op.
func TestInstrumentedKV_CountsErrors(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	kv := NewInstrumentedKV(&failingKV{MemoryKV: MemoryKV{data: map[string][]byte{}}}, "test", reg)

	if err := kv.Put(ctx, "k", []byte("v")); err == nil {
		t.Fatal("expected Put error")
	}
	kv.Get(ctx, "k") // missing key is not an error

	if got := testutil.ToFloat64(kv.errs.WithLabelValues("test", "put")); got != 1 {
		t.Errorf("put errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(kv.errs.WithLabelValues("test", "get")); got != 0 {
		t.Errorf("get errors = %v, want 0", got)
	}
}
