package repository

import (
	"context"
	"encoding/json"
)

// DocumentStore is the key-value persistence collaborator: one JSON document
// per key. This is the public contract consumers should depend on; concrete
// implementations live under internal/.
type DocumentStore interface {
	// Get returns the stored document, or nil when the key is absent.
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Put(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
	// List returns every document whose key starts with prefix.
	List(ctx context.Context, prefix string) (map[string]json.RawMessage, error)
}
