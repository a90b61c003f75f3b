package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/chillpill/chillpill/internal/model"
	"github.com/chillpill/chillpill/internal/store"
)

// Run exercises the entry contract against a store.Store implementation.
// Implementations should provide an isolated store and return it from makeStore.
// Shared backends are fine: the suite only inspects entries it created.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	t.Cleanup(func() { _ = s.Close() })
	entries := s.Entries()
	ctx := context.Background()

	marker := uuid.New().String()
	body1 := "first " + marker
	body2 := "second " + marker

	// Create
	id1, err := entries.Create(ctx, &model.JournalEntry{Body: body1, Sentiment: model.String("2.43"), Timestamp: "01/03/2024 09:15:00"})
	if err != nil {
		t.Fatalf("Create e1: %v", err)
	}
	id2, err := entries.Create(ctx, &model.JournalEntry{Body: body2, Timestamp: "01/03/2024 09:16:00"})
	if err != nil {
		t.Fatalf("Create e2: %v", err)
	}
	if id1 == "" || id2 == "" || id1 == id2 {
		t.Fatalf("Create: ids must be non-empty and distinct, got %q %q", id1, id2)
	}

	// Get round trip
	got, err := entries.Get(ctx, id1)
	if err != nil {
		t.Fatalf("Get e1: %v", err)
	}
	if got.ID != id1 || got.Body != body1 || got.Sentiment == nil || *got.Sentiment != "2.43" || got.Timestamp != "01/03/2024 09:15:00" {
		t.Fatalf("Get e1: unexpected entry %+v", got)
	}
	if got.LastTimestamp != nil {
		t.Fatalf("Get e1: last timestamp should be unset, got %q", *got.LastTimestamp)
	}
	if got2, err := entries.Get(ctx, id2); err != nil || got2.Sentiment != nil {
		t.Fatalf("Get e2: want nil sentiment, got=%+v err=%v", got2, err)
	}

	// List keeps insertion order
	all, err := entries.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	pos1, pos2 := indexOf(all, id1), indexOf(all, id2)
	if pos1 < 0 || pos2 < 0 || pos1 > pos2 {
		t.Fatalf("List: want e1 before e2, positions %d %d", pos1, pos2)
	}

	// Partial update
	newBody := "edited " + marker
	edited := "02/03/2024 18:00:00"
	if err := entries.Update(ctx, id1, model.Fields{model.FieldBody: &newBody, model.FieldLastTimestamp: &edited}); err != nil {
		t.Fatalf("Update e1: %v", err)
	}
	got, err = entries.Get(ctx, id1)
	if err != nil {
		t.Fatalf("Get after Update: %v", err)
	}
	if got.Body != newBody || got.Sentiment == nil || *got.Sentiment != "2.43" || got.Timestamp != "01/03/2024 09:15:00" {
		t.Fatalf("Update must only replace given fields, got %+v", got)
	}
	if got.LastTimestamp == nil || *got.LastTimestamp != edited {
		t.Fatalf("Update: last timestamp not stored, got %+v", got)
	}

	if err := entries.Update(ctx, id1, model.Fields{model.FieldSentiment: nil}); err != nil {
		t.Fatalf("Update sentiment to null: %v", err)
	}
	if got, err := entries.Get(ctx, id1); err != nil || got.Sentiment != nil {
		t.Fatalf("Update sentiment to null: got=%+v err=%v", got, err)
	}

	if err := entries.Update(ctx, uuid.New().String(), model.Fields{model.FieldBody: &newBody}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Update unknown id: want ErrNotFound, got %v", err)
	}
	if err := entries.Update(ctx, id1, model.Fields{"mood": &newBody}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("Update unknown field: want ErrValidation, got %v", err)
	}

	// Exists
	if ok, err := entries.Exists(ctx, model.Fields{model.FieldBody: &newBody, model.FieldLastTimestamp: &edited}); err != nil || !ok {
		t.Fatalf("Exists edited: ok=%v err=%v", ok, err)
	}
	if ok, err := entries.Exists(ctx, model.Fields{model.FieldBody: model.String("missing " + marker)}); err != nil || ok {
		t.Fatalf("Exists missing: ok=%v err=%v", ok, err)
	}
	if ok, err := entries.Exists(ctx, model.Fields{model.FieldBody: &body2, model.FieldSentiment: nil}); err != nil || !ok {
		t.Fatalf("Exists null sentiment: ok=%v err=%v", ok, err)
	}
	if ok, err := entries.Exists(ctx, model.Fields{model.FieldBody: &body2, model.FieldSentiment: model.String("2.43")}); err != nil || ok {
		t.Fatalf("Exists wrong sentiment: ok=%v err=%v", ok, err)
	}

	// Lookup misses
	if _, err := entries.Get(ctx, uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get unknown id: want ErrNotFound, got %v", err)
	}
	if _, err := entries.Get(ctx, "not-an-id"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get malformed id: want ErrNotFound, got %v", err)
	}

	// Delete is idempotent
	if err := entries.Delete(ctx, id2); err != nil {
		t.Fatalf("Delete e2: %v", err)
	}
	if _, err := entries.Get(ctx, id2); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get after Delete: want ErrNotFound, got %v", err)
	}
	if err := entries.Delete(ctx, id2); err != nil {
		t.Fatalf("second Delete e2: %v", err)
	}
	if err := entries.Delete(ctx, "not-an-id"); err != nil {
		t.Fatalf("Delete malformed id: %v", err)
	}

	// Ids are not reused
	id3, err := entries.Create(ctx, &model.JournalEntry{Body: "third " + marker, Timestamp: "03/03/2024 07:00:00"})
	if err != nil {
		t.Fatalf("Create e3: %v", err)
	}
	if id3 == id2 || id3 == id1 {
		t.Fatalf("Create e3: id %q reused", id3)
	}
	all, err = entries.List(ctx)
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if indexOf(all, id2) >= 0 {
		t.Fatalf("List after delete: deleted entry still present")
	}
	if indexOf(all, id1) > indexOf(all, id3) {
		t.Fatalf("List after delete: want e1 before e3")
	}
}

func indexOf(list []*model.JournalEntry, id string) int {
	for i, e := range list {
		if e.ID == id {
			return i
		}
	}
	return -1
}
