// Package services wires classification, storage and affirmations into the
// journal's user-facing flows.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/chillpill/chillpill/internal/journal"
	"github.com/chillpill/chillpill/internal/model"
	"github.com/chillpill/chillpill/internal/sentiment"
)

const (
	MsgEntryAdded    = "New journal entry added!"
	MsgEmptyEntry    = "Error: We could not save this entry. Please ensure there is text in the journal entry."
	MsgEmptyRevision = "Error: We could not update this entry. Please ensure there is text in the journal entry."
)

// Classifier scores entry text.
type Classifier interface {
	Classify(ctx context.Context, text string) sentiment.Result
}

// Affirmer picks a message for a score.
type Affirmer interface {
	Select(score float64) string
}

// Submission is the outcome of adding an entry.
type Submission struct {
	ID          string  `json:"id"`
	Sentiment   *string `json:"sentiment"`
	Affirmation string  `json:"affirmation,omitempty"`
	Result      string  `json:"result"`
	// Unscored explains a missing sentiment.
	Unscored string `json:"unscored,omitempty"`
}

// JournalService runs the submit and revise flows.
type JournalService struct {
	journal    *journal.Manager
	classifier Classifier
	affirm     Affirmer
	log        zerolog.Logger
}

func NewJournalService(j *journal.Manager, c Classifier, a Affirmer, log zerolog.Logger) *JournalService {
	return &JournalService{journal: j, classifier: c, affirm: a, log: log.With().Str("component", "journal_service").Logger()}
}

// Journal exposes the underlying manager for read paths.
func (s *JournalService) Journal() *journal.Manager { return s.journal }

// Submit classifies body, stores it and, when it was scored, attaches an affirmation.
func (s *JournalService) Submit(ctx context.Context, body string) (Submission, error) {
	if strings.TrimSpace(body) == "" {
		return Submission{}, model.NewValidationError(string(model.FieldBody), MsgEmptyEntry)
	}

	res := s.classifier.Classify(ctx, body)
	id, err := s.journal.Create(ctx, body, res.Sentiment())
	if err != nil {
		return Submission{}, err
	}

	out := Submission{ID: id, Sentiment: res.Sentiment(), Result: MsgEntryAdded}
	if score, ok := res.Score(); ok {
		out.Affirmation = s.affirm.Select(score)
	} else {
		out.Unscored = string(res.Reason())
	}
	s.log.Info().Str("entry_id", id).Str("outcome", res.Outcome()).Msg("journal entry submitted")
	return out, nil
}

// Revise replaces the body of entry id, re-scores it and stamps the revision time.
func (s *JournalService) Revise(ctx context.Context, id, body string) (model.JournalEntry, error) {
	if strings.TrimSpace(body) == "" {
		return model.JournalEntry{}, model.NewValidationError(string(model.FieldBody), MsgEmptyRevision)
	}
	if _, ok, err := s.journal.ReadOne(ctx, id); err != nil {
		return model.JournalEntry{}, err
	} else if !ok {
		return model.JournalEntry{}, model.ErrNotFound
	}

	res := s.classifier.Classify(ctx, body)
	now := s.journal.Now()
	err := s.journal.Update(ctx, id, model.Fields{
		model.FieldBody:          model.String(body),
		model.FieldSentiment:     res.Sentiment(),
		model.FieldLastTimestamp: model.String(now),
	})
	if err != nil {
		return model.JournalEntry{}, err
	}

	// the entry may have been deleted or rewritten concurrently
	found, err := s.journal.CheckOne(ctx, model.Fields{
		model.FieldBody:          model.String(body),
		model.FieldLastTimestamp: model.String(now),
	})
	if err != nil {
		return model.JournalEntry{}, err
	}
	if !found {
		return model.JournalEntry{}, fmt.Errorf("revision of %s not visible: %w", id, model.ErrConflict)
	}

	e, ok, err := s.journal.ReadOne(ctx, id)
	if err != nil {
		return model.JournalEntry{}, err
	}
	if !ok {
		return model.JournalEntry{}, model.ErrNotFound
	}
	s.log.Info().Str("entry_id", id).Str("outcome", res.Outcome()).Msg("journal entry revised")
	return e, nil
}
