package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillpill/chillpill/internal/affirmation"
	"github.com/chillpill/chillpill/internal/api/respond"
	"github.com/chillpill/chillpill/internal/journal"
	"github.com/chillpill/chillpill/internal/model"
	"github.com/chillpill/chillpill/internal/mood"
	"github.com/chillpill/chillpill/internal/sentiment"
	"github.com/chillpill/chillpill/internal/services"
	"github.com/chillpill/chillpill/internal/store/memstore"
)

type stubClassifier struct{ result sentiment.Result }

func (s *stubClassifier) Classify(context.Context, string) sentiment.Result { return s.result }

type stubHealth struct{ healthy bool }

func (s stubHealth) IsHealthy() bool { return s.healthy }
func (s stubHealth) Components() map[string]string {
	return map[string]string{"store": "up", "scorer": "down"}
}

type testEnv struct {
	router     http.Handler
	manager    *journal.Manager
	classifier *stubClassifier
	clock      *clockwork.FakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local))
	m := journal.NewManager(memstore.New().Entries(), clock, zerolog.Nop())
	c := &stubClassifier{result: sentiment.Scored("7.15")}
	svc := services.NewJournalService(m, c, affirmation.NewWithPicker(func(int) int { return 0 }), zerolog.Nop())
	r := NewRouter(Deps{
		Journal: svc,
		Mood:    mood.NewAnalytics(m, zerolog.Nop(), 3, 7),
		Health:  stubHealth{healthy: true},
		Log:     zerolog.Nop(),
	})
	return &testEnv{router: r, manager: m, classifier: c, clock: clock}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestCreateEntry_Scored(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/entries", map[string]string{"body": "I had a great day today!"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	sub := decode[services.Submission](t, rr)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "7.15", *sub.Sentiment)
	assert.Equal(t, "Even your hair is great today!", sub.Affirmation)
	assert.Equal(t, "New journal entry added!", sub.Result)
}

func TestCreateEntry_LongBodyStoredUnscored(t *testing.T) {
	env := newTestEnv(t)
	env.classifier.result = sentiment.Unscored(sentiment.ReasonTooLong)
	long := strings.Repeat("word ", (2<<20)/5)

	rr := env.do(t, http.MethodPost, "/api/entries", map[string]string{"body": long})
	require.Equal(t, http.StatusCreated, rr.Code)

	sub := decode[services.Submission](t, rr)
	entry, ok, err := env.manager.ReadOne(context.Background(), sub.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, long, entry.Body)
	assert.Nil(t, entry.Sentiment)
}

func TestCreateEntry_OversizedBody(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/entries", map[string]string{"body": strings.Repeat("a", maxBodyBytes)})
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	resp := decode[respond.ErrorResponse](t, rr)
	assert.Equal(t, MsgEntryTooLarge, resp.Message)

	entries, err := env.manager.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateEntry_UnscoredOmitsAffirmation(t *testing.T) {
	env := newTestEnv(t)
	env.classifier.result = sentiment.Unscored(sentiment.ReasonObjective)

	rr := env.do(t, http.MethodPost, "/api/entries", map[string]string{"body": "I am a frog."})
	require.Equal(t, http.StatusCreated, rr.Code)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.Nil(t, raw["sentiment"])
	assert.NotContains(t, raw, "affirmation")
	assert.Equal(t, "objective", raw["unscored"])
}

func TestCreateEntry_Rejections(t *testing.T) {
	env := newTestEnv(t)
	cases := map[string]interface{}{
		"blank body":   map[string]string{"body": "   "},
		"empty body":   map[string]string{"body": ""},
		"missing body": map[string]string{"text": "hello"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/entries", body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, services.MsgEmptyEntry, decode[respond.ErrorResponse](t, rr).Message)
		})
	}

	rr := env.do(t, http.MethodPost, "/api/entries", "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	list := decode[entryListResponse](t, env.do(t, http.MethodGet, "/api/entries", nil))
	assert.Zero(t, list.Count)
}

func TestEntryLifecycle(t *testing.T) {
	env := newTestEnv(t)

	first := decode[services.Submission](t, env.do(t, http.MethodPost, "/api/entries", map[string]string{"body": "one"}))
	second := decode[services.Submission](t, env.do(t, http.MethodPost, "/api/entries", map[string]string{"body": "two"}))

	list := decode[entryListResponse](t, env.do(t, http.MethodGet, "/api/entries", nil))
	require.Equal(t, 2, list.Count)
	assert.Equal(t, first.ID, list.Entries[0].ID)
	assert.Equal(t, second.ID, list.Entries[1].ID)

	got := decode[model.JournalEntry](t, env.do(t, http.MethodGet, "/api/entries/"+first.ID, nil))
	assert.Equal(t, "one", got.Body)
	assert.Equal(t, "01/05/2024 09:00:00", got.Timestamp)

	env.clock.Advance(30 * time.Minute)
	env.classifier.result = sentiment.Scored("2.10")
	rr := env.do(t, http.MethodPut, "/api/entries/"+first.ID, map[string]string{"body": "one, revised"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[model.JournalEntry](t, rr)
	assert.Equal(t, "one, revised", updated.Body)
	assert.Equal(t, "2.10", *updated.Sentiment)
	assert.Equal(t, "01/05/2024 09:00:00", updated.Timestamp)
	assert.Equal(t, "01/05/2024 09:30:00", *updated.LastTimestamp)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/entries/"+first.ID, nil).Code)
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/entries/"+first.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/entries/"+first.ID, nil).Code)
}

func TestUpdateEntry_Errors(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPut, "/api/entries/nope", map[string]string{"body": "text"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	sub := decode[services.Submission](t, env.do(t, http.MethodPost, "/api/entries", map[string]string{"body": "text"}))
	rr = env.do(t, http.MethodPut, "/api/entries/"+sub.ID, map[string]string{"body": ""})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, services.MsgEmptyRevision, decode[respond.ErrorResponse](t, rr).Message)
}

func seedMood(t *testing.T, env *testEnv) {
	t.Helper()
	for _, s := range []string{"2.43", "2.50", "3.98", "6.55", "7.15"} {
		_, err := env.manager.Create(context.Background(), "day", model.String(s))
		require.NoError(t, err)
		env.clock.Advance(24 * time.Hour)
	}
	_, err := env.manager.Create(context.Background(), "I am a frog.", nil)
	require.NoError(t, err)
}

func TestMoodEndpoints(t *testing.T) {
	env := newTestEnv(t)
	seedMood(t, env)

	low := decode[rankingResponse](t, env.do(t, http.MethodGet, "/api/mood/lowest", nil))
	require.Len(t, low.Moments, 3)
	assert.Equal(t, "2.43", low.Moments[0].Sentiment)
	assert.True(t, strings.HasPrefix(low.Text, "Your lowest moments were:\n1. Timestamp: 01/05/2024 09:00:00, Sentiment: 2.43\n"))

	high := decode[rankingResponse](t, env.do(t, http.MethodGet, "/api/mood/highest?n=2", nil))
	require.Len(t, high.Moments, 2)
	assert.Equal(t, "7.15", high.Moments[0].Sentiment)
	assert.Equal(t, "6.55", high.Moments[1].Sentiment)

	avg := decode[averageResponse](t, env.do(t, http.MethodGet, "/api/mood/average", nil))
	assert.True(t, avg.Valid)
	assert.Equal(t, 4.52, avg.Value)
	assert.Equal(t, "The average sentiment of your last 7 entries is: 4.52", avg.Text)

	var series struct {
		Points []mood.Point `json:"points"`
		Count  int          `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.do(t, http.MethodGet, "/api/mood/series", nil).Body.Bytes(), &series))
	assert.Equal(t, 5, series.Count)

	summary := decode[summaryResponse](t, env.do(t, http.MethodGet, "/api/mood", nil))
	assert.Len(t, summary.Series, 5)
	assert.Len(t, summary.Highest.Moments, 3)
	assert.Equal(t, 4.52, summary.Average.Value)
}

func TestMoodEndpoints_EmptyJournal(t *testing.T) {
	env := newTestEnv(t)
	avg := decode[averageResponse](t, env.do(t, http.MethodGet, "/api/mood/average", nil))
	assert.False(t, avg.Valid)
	assert.Equal(t, "No valid sentiment scores to display", avg.Text)
}

func TestMoodEndpoints_BadSize(t *testing.T) {
	env := newTestEnv(t)
	for _, q := range []string{"?n=abc", "?n=-1", "?n=5000"} {
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/mood/lowest"+q, nil).Code, q)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]interface{}](t, rr)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, map[string]interface{}{"store": "up", "scorer": "down"}, body["components"])

	// trigger at least one entry op so the counter family is exported
	env.do(t, http.MethodPost, "/api/entries", map[string]string{"body": "hello"})
	rr = env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "chillpill_entries_total")
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusMethodNotAllowed, env.do(t, http.MethodPatch, "/api/entries", nil).Code)
}
