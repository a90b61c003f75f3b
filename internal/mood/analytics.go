// Package mood summarises the sentiment history of the journal.
package mood

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chillpill/chillpill/internal/model"
)

const (
	DefaultRankingSize  = 3
	DefaultRecentWindow = 7

	// NoScoresMessage is shown when no average can be computed.
	NoScoresMessage = "No valid sentiment scores to display"
)

// Reader is the read side of the journal.
type Reader interface {
	ReadAll(ctx context.Context) ([]model.JournalEntry, error)
}

// Tone buckets a score for charting.
type Tone string

const (
	ToneLow  Tone = "low"  // below 4
	ToneMid  Tone = "mid"  // 4 to 6
	ToneHigh Tone = "high" // above 6
)

// ToneFor returns the chart bucket of score.
func ToneFor(score float64) Tone {
	switch {
	case score < 4:
		return ToneLow
	case score <= 6:
		return ToneMid
	default:
		return ToneHigh
	}
}

// Point is one scored entry on the mood chart.
type Point struct {
	EntryID   string  `json:"entry_id"`
	Timestamp string  `json:"timestamp"`
	Sentiment float64 `json:"sentiment"`
	Tone      Tone    `json:"tone"`
}

// Moment is one line of a Ranking.
type Moment struct {
	Rank      int    `json:"rank"`
	EntryID   string `json:"entry_id"`
	Timestamp string `json:"timestamp"`
	Sentiment string `json:"sentiment"`
}

// Ranking is a numbered list of extreme entries.
type Ranking struct {
	Title   string   `json:"title"`
	Moments []Moment `json:"moments"`
}

func (r Ranking) String() string {
	var b strings.Builder
	b.WriteString(r.Title)
	b.WriteString("\n")
	for _, m := range r.Moments {
		fmt.Fprintf(&b, "%d. Timestamp: %s, Sentiment: %s\n", m.Rank, m.Timestamp, m.Sentiment)
	}
	return b.String()
}

// Average is the mean sentiment of the most recent scored entries.
type Average struct {
	Value  float64 `json:"value"`
	Count  int     `json:"count"`
	Window int     `json:"window"`
	Valid  bool    `json:"valid"`
}

func (a Average) String() string {
	if !a.Valid {
		return NoScoresMessage
	}
	return fmt.Sprintf("The average sentiment of your last %d entries is: %.2f", a.Window, a.Value)
}

// Summary bundles everything shown on the mood page.
type Summary struct {
	Series  []Point `json:"series"`
	Lowest  Ranking `json:"lowest"`
	Highest Ranking `json:"highest"`
	Average Average `json:"average"`
}

// Analytics computes mood views over the journal.
type Analytics struct {
	journal     Reader
	log         zerolog.Logger
	rankingSize int
	window      int
}

func NewAnalytics(journal Reader, log zerolog.Logger, rankingSize, window int) *Analytics {
	if rankingSize <= 0 {
		rankingSize = DefaultRankingSize
	}
	if window <= 0 {
		window = DefaultRecentWindow
	}
	return &Analytics{
		journal:     journal,
		log:         log.With().Str("component", "mood").Logger(),
		rankingSize: rankingSize,
		window:      window,
	}
}

// RankingSize is the default n for Lowest and Highest.
func (a *Analytics) RankingSize() int { return a.rankingSize }

// RecentWindow is the default n for RecentAverage.
func (a *Analytics) RecentWindow() int { return a.window }

type scored struct {
	entry model.JournalEntry
	value float64
	order int
	// numeric is false when the stored sentiment does not parse as a number.
	numeric bool
}

// scoredEntries returns every entry with a sentiment, in store order.
func (a *Analytics) scoredEntries(ctx context.Context) ([]scored, error) {
	all, err := a.journal.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []scored
	for i, e := range all {
		if e.Sentiment == nil {
			continue
		}
		v, err := strconv.ParseFloat(*e.Sentiment, 64)
		out = append(out, scored{entry: e, value: v, order: i, numeric: err == nil && !math.IsNaN(v)})
	}
	return out, nil
}

// numericOnly drops entries whose sentiment is not a number, logging each one.
func (a *Analytics) numericOnly(entries []scored, msg string) []scored {
	out := make([]scored, 0, len(entries))
	for _, s := range entries {
		if !s.numeric {
			a.log.Warn().Str("entry_id", s.entry.ID).Str("sentiment", *s.entry.Sentiment).Msg(msg)
			continue
		}
		out = append(out, s)
	}
	return out
}

// Series returns one point per entry with a numeric sentiment, in store order.
func (a *Analytics) Series(ctx context.Context) ([]Point, error) {
	entries, err := a.scoredEntries(ctx)
	if err != nil {
		return nil, err
	}
	entries = a.numericOnly(entries, "skipping non-numeric sentiment in mood series")
	points := make([]Point, 0, len(entries))
	for _, s := range entries {
		points = append(points, Point{
			EntryID:   s.entry.ID,
			Timestamp: s.entry.Timestamp,
			Sentiment: s.value,
			Tone:      ToneFor(s.value),
		})
	}
	return points, nil
}

// Lowest returns up to n entries with the smallest sentiment, ascending.
func (a *Analytics) Lowest(ctx context.Context, n int) (Ranking, error) {
	return a.rank(ctx, n, "Your lowest moments were:", func(x, y float64) bool { return x < y })
}

// Highest returns up to n entries with the largest sentiment, descending.
func (a *Analytics) Highest(ctx context.Context, n int) (Ranking, error) {
	return a.rank(ctx, n, "Your highest moments were:", func(x, y float64) bool { return x > y })
}

func (a *Analytics) rank(ctx context.Context, n int, title string, less func(x, y float64) bool) (Ranking, error) {
	r := Ranking{Title: title, Moments: []Moment{}}
	entries, err := a.scoredEntries(ctx)
	if err != nil {
		return r, err
	}
	entries = a.numericOnly(entries, "skipping non-numeric sentiment in ranking")
	if n <= 0 {
		return r, nil
	}
	sort.SliceStable(entries, func(i, j int) bool { return less(entries[i].value, entries[j].value) })
	if len(entries) > n {
		entries = entries[:n]
	}
	for i, s := range entries {
		r.Moments = append(r.Moments, Moment{
			Rank:      i + 1,
			EntryID:   s.entry.ID,
			Timestamp: s.entry.Timestamp,
			Sentiment: *s.entry.Sentiment,
		})
	}
	return r, nil
}

// RecentAverage is the mean of the n most recent scored entries by creation
// time, rounded to two decimals. Entries sharing a timestamp count the later
// insertion as more recent. A non-numeric sentiment inside the window leaves
// the average invalid; one outside it is ignored.
func (a *Analytics) RecentAverage(ctx context.Context, n int) (Average, error) {
	avg := Average{Window: n}
	entries, err := a.scoredEntries(ctx)
	if err != nil {
		return avg, err
	}
	if n <= 0 || len(entries) == 0 {
		return avg, nil
	}

	times := make(map[int]time.Time, len(entries))
	for _, s := range entries {
		t, err := model.ParseTimestamp(s.entry.Timestamp)
		if err != nil {
			// unparseable timestamps sort as oldest
			a.log.Warn().Str("entry_id", s.entry.ID).Err(err).Msg("entry timestamp not parseable")
		}
		times[s.order] = t
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := times[entries[i].order], times[entries[j].order]
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return entries[i].order > entries[j].order
	})
	if len(entries) > n {
		entries = entries[:n]
	}

	var sum float64
	for _, s := range entries {
		if !s.numeric {
			a.log.Warn().Str("entry_id", s.entry.ID).Str("sentiment", *s.entry.Sentiment).Msg("non-numeric sentiment in recent window; no average")
			return avg, nil
		}
		sum += s.value
	}
	avg.Count = len(entries)
	avg.Value = math.Round(sum/float64(len(entries))*100) / 100
	avg.Valid = true
	return avg, nil
}

// Summary computes the series, both rankings and the recent average using the
// configured sizes.
func (a *Analytics) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	var err error
	if s.Series, err = a.Series(ctx); err != nil {
		return s, err
	}
	if s.Lowest, err = a.Lowest(ctx, a.rankingSize); err != nil {
		return s, err
	}
	if s.Highest, err = a.Highest(ctx, a.rankingSize); err != nil {
		return s, err
	}
	if s.Average, err = a.RecentAverage(ctx, a.window); err != nil {
		return s, err
	}
	return s, nil
}
