package mock

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/garnizeh/neighborly/pkg/repository"
)

// DocumentStore is an in-memory repository.DocumentStore for tests.
type DocumentStore struct {
	mu   sync.Mutex
	docs map[string]json.RawMessage

	// PutErr, when set, is returned by every Put. Lets tests exercise the
	// log-and-swallow persistence path.
	PutErr error

	puts int
}

var _ repository.DocumentStore = (*DocumentStore)(nil)

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]json.RawMessage)}
}

func (m *DocumentStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.docs[key]
	if !ok {
		return nil, nil
	}
	cp := make(json.RawMessage, len(v))
	copy(cp, v)
	return cp, nil
}

func (m *DocumentStore) Put(ctx context.Context, key string, value json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	cp := make(json.RawMessage, len(value))
	copy(cp, value)
	m.docs[key] = cp
	m.puts++
	return nil
}

// PutCount returns the number of successful writes so far.
func (m *DocumentStore) PutCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

func (m *DocumentStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}

func (m *DocumentStore) List(ctx context.Context, prefix string) (map[string]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]json.RawMessage)
	for k, v := range m.docs {
		if strings.HasPrefix(k, prefix) {
			cp := make(json.RawMessage, len(v))
			copy(cp, v)
			out[k] = cp
		}
	}
	return out, nil
}

// Keys returns the stored keys sorted, for assertions.
func (m *DocumentStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
