package store

import (
	"context"

	"github.com/chillpill/chillpill/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (memstore, sqlite, postgres, mongo).
type Store interface {
	Entries() Entries
	Close() error
}

// Entries is the journal entry collection. It holds no business rules:
// validation of bodies and sentiment values belongs to the callers.
type Entries interface {
	// Create persists e and returns the store-assigned id.
	Create(ctx context.Context, e *model.JournalEntry) (string, error)
	// List returns all entries in insertion order.
	List(ctx context.Context) ([]*model.JournalEntry, error)
	// Get returns model.ErrNotFound when no entry has the id.
	Get(ctx context.Context, id string) (*model.JournalEntry, error)
	// Update replaces only the given fields. Returns model.ErrNotFound on a miss.
	Update(ctx context.Context, id string, fields model.Fields) error
	// Delete is a no-op when the id is absent.
	Delete(ctx context.Context, id string) error
	// Exists reports whether any entry matches every field of q.
	Exists(ctx context.Context, q model.Fields) (bool, error)
}
