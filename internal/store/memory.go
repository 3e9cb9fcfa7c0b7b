package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/match"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
)

// Memory keeps documents in process, in insertion order.
type Memory[T model.Document[T]] struct {
	mu    sync.RWMutex
	docs  map[string]T
	order []string
}

func NewMemory[T model.Document[T]]() *Memory[T] {
	return &Memory[T]{docs: make(map[string]T)}
}

func (m *Memory[T]) FindAll(ctx context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.docs[id])
	}
	return out, nil
}

func (m *Memory[T]) FindByID(ctx context.Context, id string) (T, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	return doc, ok, nil
}

func (m *Memory[T]) FindByExample(ctx context.Context, example T, mode match.Mode) ([]T, error) {
	all, err := m.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return match.Filter(all, fieldsOf[T], example.Fields(), mode), nil
}

func (m *Memory[T]) Save(ctx context.Context, doc T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if doc.DocumentID() == "" {
		doc = doc.WithID(uuid.NewString())
	}

	id := doc.DocumentID()
	if _, exists := m.docs[id]; !exists {
		m.order = append(m.order, id)
	}
	m.docs[id] = doc
	return doc, nil
}

func (m *Memory[T]) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.docs[id]; !exists {
		return nil
	}
	delete(m.docs, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory[T]) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs = make(map[string]T)
	m.order = nil
	return nil
}

// NewMemorySet returns empty in-process stores for every resource.
func NewMemorySet() Set {
	return Set{
		Authors:    NewMemory[model.Author](),
		Books:      NewMemory[model.Book](),
		Publishers: NewMemory[model.Publisher](),
		Ping:       func(context.Context) error { return nil },
		Close:      func() error { return nil },
	}
}
