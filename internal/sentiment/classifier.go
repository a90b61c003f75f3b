// Package sentiment decides whether a journal entry gets a sentiment score and
// obtains it from a remote scoring service.
package sentiment

import (
	"context"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/chillpill/chillpill/internal/metrics"
)

const (
	// MaxLength is the rune count at which a text is no longer sent for scoring.
	MaxLength = 80000
	// SubjectivityThreshold is the subjectivity a text must exceed to be scored.
	SubjectivityThreshold = 0.2
	// DefaultTimeout bounds one remote scoring call.
	DefaultTimeout = 10 * time.Second
)

// Subjectivity estimates how opinionated text is, in [0,1].
type Subjectivity interface {
	Subjectivity(text string) float64
}

// Scorer returns the probability in [0,1] that text is positive.
type Scorer interface {
	Positive(ctx context.Context, text string) (float64, error)
}

// Classifier applies the scoring guards in order: subjectivity, length, remote score.
type Classifier struct {
	subjectivity Subjectivity
	scorer       Scorer
	timeout      time.Duration
	log          zerolog.Logger
}

// Option customises a Classifier.
type Option func(*Classifier)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewClassifier(subj Subjectivity, scorer Scorer, log zerolog.Logger, opts ...Option) *Classifier {
	c := &Classifier{
		subjectivity: subj,
		scorer:       scorer,
		timeout:      DefaultTimeout,
		log:          log.With().Str("component", "classifier").Logger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Classify never fails: any problem with the scoring service yields
// Unscored(ReasonServiceFailure).
func (c *Classifier) Classify(ctx context.Context, text string) Result {
	res := c.classify(ctx, text)
	metrics.ObserveClassification(res.Outcome())
	return res
}

func (c *Classifier) classify(ctx context.Context, text string) Result {
	if s := c.subjectivity.Subjectivity(text); s <= SubjectivityThreshold {
		c.log.Debug().Float64("subjectivity", s).Msg("text too objective to score")
		return Unscored(ReasonObjective)
	}
	if utf8.RuneCountInString(text) >= MaxLength {
		c.log.Debug().Int("runes", utf8.RuneCountInString(text)).Msg("text too long to score")
		return Unscored(ReasonTooLong)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pos, err := c.scorer.Positive(ctx, text)
	if err == nil && (math.IsNaN(pos) || pos < 0 || pos > 1) {
		err = fmt.Errorf("%w: positive probability %v outside [0,1]", ErrBadResponse, pos)
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("sentiment scoring failed")
		return Unscored(ReasonServiceFailure)
	}
	return Scored(fmt.Sprintf("%.2f", pos*10))
}
