// Package memstore is an in-memory store.Store used by tests and DB_DRIVER=memory.
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/chillpill/chillpill/internal/model"
	"github.com/chillpill/chillpill/internal/store"
)

// Store keeps entries in insertion order behind a mutex.
type Store struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*model.JournalEntry
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{entries: make(map[string]*model.JournalEntry)}
}

func (s *Store) Entries() store.Entries { return s }
func (s *Store) Close() error           { return nil }

// HealthPing implements health.HealthPinger; memory is always reachable.
func (s *Store) HealthPing(ctx context.Context) error { return ctx.Err() }

func (s *Store) Create(_ context.Context, e *model.JournalEntry) (string, error) {
	id := uuid.New().String()
	rec := e.Clone()
	rec.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = rec
	s.order = append(s.order, id)
	return id, nil
}

func (s *Store) List(_ context.Context) ([]*model.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.JournalEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id].Clone())
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (*model.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return e.Clone(), nil
}

func (s *Store) Update(_ context.Context, id string, fields model.Fields) error {
	if err := fields.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return model.ErrNotFound
	}
	e.Apply(fields)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return nil
	}
	delete(s.entries, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Exists(_ context.Context, q model.Fields) (bool, error) {
	if err := q.Validate(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if s.entries[id].Matches(q) {
			return true, nil
		}
	}
	return false, nil
}
