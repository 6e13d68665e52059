package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Default blob keys for the two collections.
const (
	DefaultMembersKey = "artcor_members"
	DefaultEventsKey  = "artcor_events"
)

// LoadCollection reads a JSON array stored under key.
// A missing key yields an empty, non-nil slice.
// PRE: kv is open
// POST: Returns the decoded records in stored order
func LoadCollection[T any](ctx context.Context, kv KV, key string) ([]T, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %q: %w", key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// SaveCollection replaces the JSON array stored under key.
// PRE: kv is open
// POST: LoadCollection(key) returns records
func SaveCollection[T any](ctx context.Context, kv KV, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return kv.Put(ctx, key, raw)
}
