package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillpill/chillpill/internal/affirmation"
	"github.com/chillpill/chillpill/internal/journal"
	"github.com/chillpill/chillpill/internal/model"
	"github.com/chillpill/chillpill/internal/sentiment"
	"github.com/chillpill/chillpill/internal/store/memstore"
)

type stubClassifier struct {
	result sentiment.Result
	texts  []string
}

func (s *stubClassifier) Classify(_ context.Context, text string) sentiment.Result {
	s.texts = append(s.texts, text)
	return s.result
}

func newService(t *testing.T, res sentiment.Result) (*JournalService, *stubClassifier, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 5, 14, 30, 0, 0, time.Local))
	c := &stubClassifier{result: res}
	m := journal.NewManager(memstore.New().Entries(), clock, zerolog.Nop())
	picker := affirmation.NewWithPicker(func(int) int { return 0 })
	return NewJournalService(m, c, picker, zerolog.Nop()), c, clock
}

func TestSubmit_ScoredGetsAffirmation(t *testing.T) {
	svc, _, _ := newService(t, sentiment.Scored("7.15"))

	sub, err := svc.Submit(context.Background(), "I had a great day today!")
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, MsgEntryAdded, sub.Result)
	require.NotNil(t, sub.Sentiment)
	assert.Equal(t, "7.15", *sub.Sentiment)
	assert.Equal(t, "Even your hair is great today!", sub.Affirmation)
	assert.Empty(t, sub.Unscored)

	e, ok, err := svc.Journal().ReadOne(context.Background(), sub.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "7.15", *e.Sentiment)
}

func TestSubmit_UnscoredHasNoAffirmation(t *testing.T) {
	svc, _, _ := newService(t, sentiment.Unscored(sentiment.ReasonObjective))

	sub, err := svc.Submit(context.Background(), "I am a frog.")
	require.NoError(t, err)
	assert.Nil(t, sub.Sentiment)
	assert.Empty(t, sub.Affirmation)
	assert.Equal(t, "objective", sub.Unscored)
	assert.Equal(t, MsgEntryAdded, sub.Result)
}

func TestSubmit_BlankBody(t *testing.T) {
	svc, c, _ := newService(t, sentiment.Scored("5.00"))

	_, err := svc.Submit(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))
	var ve model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, MsgEmptyEntry, ve.Message)
	assert.Empty(t, c.texts, "classifier must not run for blank bodies")

	all, err := svc.Journal().ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRevise(t *testing.T) {
	ctx := context.Background()
	svc, c, clock := newService(t, sentiment.Scored("3.00"))

	sub, err := svc.Submit(ctx, "meh day")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	c.result = sentiment.Scored("8.50")
	e, err := svc.Revise(ctx, sub.ID, "actually a great day")
	require.NoError(t, err)

	assert.Equal(t, sub.ID, e.ID)
	assert.Equal(t, "actually a great day", e.Body)
	assert.Equal(t, "8.50", *e.Sentiment)
	assert.Equal(t, "05/05/2024 14:30:00", e.Timestamp)
	require.NotNil(t, e.LastTimestamp)
	assert.Equal(t, "05/05/2024 16:30:00", *e.LastTimestamp)
	assert.Equal(t, []string{"meh day", "actually a great day"}, c.texts)
}

func TestRevise_CanClearSentiment(t *testing.T) {
	ctx := context.Background()
	svc, c, _ := newService(t, sentiment.Scored("3.00"))
	sub, err := svc.Submit(ctx, "sad")
	require.NoError(t, err)

	c.result = sentiment.Unscored(sentiment.ReasonServiceFailure)
	e, err := svc.Revise(ctx, sub.ID, "sad again")
	require.NoError(t, err)
	assert.Nil(t, e.Sentiment)
}

func TestRevise_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, sentiment.Scored("3.00"))

	_, err := svc.Revise(ctx, "missing", "text")
	assert.True(t, errors.Is(err, model.ErrNotFound))

	sub, err := svc.Submit(ctx, "text")
	require.NoError(t, err)
	_, err = svc.Revise(ctx, sub.ID, "")
	assert.True(t, errors.Is(err, model.ErrValidation))

	e, _, err := svc.Journal().ReadOne(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "text", e.Body)
	assert.Nil(t, e.LastTimestamp)
}
