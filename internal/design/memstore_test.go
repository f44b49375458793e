package design

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"interiorai/internal/domain"
)

// memStore is an in-memory domain.DocumentStore.
type memStore struct {
	mu        sync.Mutex
	docs      map[string]map[string]any
	order     []string
	createErr error
	updateErr error
	findErr   error
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]map[string]any{}}
}

func (m *memStore) Create(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	key := collection + "/" + id
	if _, ok := m.docs[key]; ok {
		return fmt.Errorf("duplicate %s", key)
	}
	cp := map[string]any{}
	for k, v := range fields {
		cp[k] = v
	}
	m.docs[key] = cp
	m.order = append(m.order, key)
	return nil
}

func (m *memStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	doc, ok := m.docs[collection+"/"+id]
	if !ok {
		return domain.ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func (m *memStore) FindByField(ctx context.Context, collection, field string, value any, limit int) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []domain.Document
	for i := len(m.order) - 1; i >= 0; i-- {
		key := m.order[i]
		doc := m.docs[key]
		if doc[field] == value {
			out = append(out, domain.Document{ID: key[len(collection)+1:], Fields: doc})
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) get(id string) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[Collection+"/"+id]
}

func (m *memStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]string(nil), m.order...)
	sort.Strings(out)
	return out
}

var errStoreDown = errors.New("store unavailable")
