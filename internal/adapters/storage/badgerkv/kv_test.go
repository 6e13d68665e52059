package badgerkv

import (
	"context"
	"errors"
	"testing"

	"artcor/internal/adapters/storage"
)

// TestKV_InMemory verifies the storage.KV contract on an in-memory database.
func TestKV_InMemory(t *testing.T) {
	ctx := context.Background()
	kv, err := Open("", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer kv.Close()

	if _, err := kv.Get(ctx, "artcor_members"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("Get missing err = %v, want ErrKeyNotFound", err)
	}
	if err := kv.Put(ctx, "artcor_members", []byte(`[{"id":1,"name":"Ana","role":"Soprano"}]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := kv.Get(ctx, "artcor_members")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[{"id":1,"name":"Ana","role":"Soprano"}]` {
		t.Errorf("Get = %s", got)
	}
}

// TestKV_Reopen verifies blobs survive closing and reopening a directory.
func TestKV_Reopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	kv, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := kv.Put(ctx, "artcor_events", []byte(`[]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	kv, err = Open(dir, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()
	got, err := kv.Get(ctx, "artcor_events")
	if err != nil || string(got) != "[]" {
		t.Errorf("Get after reopen = %q, %v", got, err)
	}
}
