// Package journal applies the journal's business rules on top of an entry store.
package journal

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/chillpill/chillpill/internal/metrics"
	"github.com/chillpill/chillpill/internal/model"
	"github.com/chillpill/chillpill/internal/store"
)

// Manager is the CRUD surface over stored journal entries.
type Manager struct {
	entries store.Entries
	clock   clockwork.Clock
	log     zerolog.Logger
}

func NewManager(entries store.Entries, clock clockwork.Clock, log zerolog.Logger) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{entries: entries, clock: clock, log: log.With().Str("component", "journal").Logger()}
}

// Now returns the current time in the entry timestamp format.
func (m *Manager) Now() string { return model.FormatTimestamp(m.clock.Now()) }

// Create stores a new entry stamped with the current time and returns its id.
func (m *Manager) Create(ctx context.Context, body string, sentiment *string) (string, error) {
	if err := validateBody(body); err != nil {
		return "", err
	}
	if err := validateSentiment(sentiment); err != nil {
		return "", err
	}
	e := &model.JournalEntry{Body: body, Sentiment: sentiment, Timestamp: m.Now()}
	id, err := m.entries.Create(ctx, e)
	if err != nil {
		return "", err
	}
	metrics.ObserveEntry(metrics.OpCreate)
	m.log.Debug().Str("entry_id", id).Bool("scored", sentiment != nil).Msg("entry created")
	return id, nil
}

// ReadAll returns every entry in store order.
func (m *Manager) ReadAll(ctx context.Context) ([]model.JournalEntry, error) {
	list, err := m.entries.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.JournalEntry, 0, len(list))
	for _, e := range list {
		out = append(out, *e)
	}
	return out, nil
}

// ReadOne returns the entry with id. An unknown id reports false, not an error.
func (m *Manager) ReadOne(ctx context.Context, id string) (model.JournalEntry, bool, error) {
	e, err := m.entries.Get(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.JournalEntry{}, false, nil
	}
	if err != nil {
		return model.JournalEntry{}, false, err
	}
	return *e, true, nil
}

// CheckOne reports whether some entry matches every field in query.
func (m *Manager) CheckOne(ctx context.Context, query model.Fields) (bool, error) {
	return m.entries.Exists(ctx, query)
}

// Update merges fields into the entry with id. The creation timestamp is immutable.
func (m *Manager) Update(ctx context.Context, id string, fields model.Fields) error {
	if err := fields.Validate(); err != nil {
		return err
	}
	if _, ok := fields[model.FieldTimestamp]; ok {
		return model.NewValidationError(string(model.FieldTimestamp), "creation timestamp cannot be changed")
	}
	if body, ok := fields[model.FieldBody]; ok {
		if body == nil {
			return model.NewValidationError(string(model.FieldBody), "body cannot be null")
		}
		if err := validateBody(*body); err != nil {
			return err
		}
	}
	if err := validateSentiment(fields[model.FieldSentiment]); err != nil {
		return err
	}
	if last := fields[model.FieldLastTimestamp]; last != nil {
		if _, err := model.ParseTimestamp(*last); err != nil {
			return model.NewValidationError(string(model.FieldLastTimestamp), "must be DD/MM/YYYY HH:MM:SS")
		}
	}

	if err := m.entries.Update(ctx, id, fields); err != nil {
		return err
	}
	metrics.ObserveEntry(metrics.OpUpdate)
	m.log.Debug().Str("entry_id", id).Int("fields", len(fields)).Msg("entry updated")
	return nil
}

// Delete removes the entry with id. Deleting an unknown id is not an error.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.entries.Delete(ctx, id); err != nil {
		return err
	}
	metrics.ObserveEntry(metrics.OpDelete)
	m.log.Debug().Str("entry_id", id).Msg("entry deleted")
	return nil
}

func validateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return model.NewValidationError(string(model.FieldBody), "body must contain text")
	}
	return nil
}

// validateSentiment accepts nil or a number in [0,10].
func validateSentiment(s *string) error {
	if s == nil {
		return nil
	}
	v, err := strconv.ParseFloat(*s, 64)
	if err != nil || v < 0 || v > 10 {
		return model.NewValidationError(string(model.FieldSentiment), "must be a number between 0 and 10")
	}
	return nil
}
