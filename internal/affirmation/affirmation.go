// Package affirmation picks an encouraging message to match an entry's sentiment.
package affirmation

import (
	"math"
	"math/rand"
)

// Fallback is returned for scores outside [0,10].
const Fallback = "Something has gone wrong."

// Band is a sentiment range with its own pool of messages.
type Band string

const (
	VeryNegative Band = "very_negative"
	Negative     Band = "negative"
	Neutral      Band = "neutral"
	Positive     Band = "positive"
	VeryPositive Band = "very_positive"
)

var pools = map[Band][]string{
	VeryPositive: {
		"Keep doing what you're doing!",
		"You are amazing!",
		"You're doing so great anyone who looks at you would be jealous.",
		"You inspire me to be more like you!",
	},
	Positive: {
		"Even your hair is great today!",
		"Slayyyyyyy!!!",
		"You're a smart cookie!",
		"You're an inspiration!",
	},
	Neutral: {
		"Today is a good day.",
		"Go get yourself a cuppa and a biscuit, you need it!",
		"Small progress is still progress.",
		"Don't forget to enjoy the journey.",
	},
	Negative: {
		"People don't slay everyday, and today is not your slay day. Make tomorrow your slay day.",
		"Go grab a coffee.",
		"All you need is the plan, the roadmap, and the courage to press on to your destination",
		"Struggling is part of learning",
		"Mistakes don't make you less capable",
		"It is not a sprint, it is a marathon. One step at a time",
	},
	VeryNegative: {
		"Get yourself a Maccies today.",
		"Tomorrow will be better!",
		"Not everyday is gonna be as bad as today, forget about it... today never happened.",
		"Failure is just another way to learn how to do something right",
		"Not everyday is gonna be as bad as today and not everyday are you going to eat your body weight in lasagne. So why not do it on the worse day of your life. Go on, eat your body weight in lasagne like no one's watching and forget about it... it never happened anyway.",
	},
}

// BandFor maps a score in [0,10] to its band. Upper bounds are inclusive.
func BandFor(score float64) (Band, bool) {
	switch {
	case math.IsNaN(score) || score < 0 || score > 10:
		return "", false
	case score <= 2:
		return VeryNegative, true
	case score <= 4:
		return Negative, true
	case score <= 6:
		return Neutral, true
	case score <= 8:
		return Positive, true
	default:
		return VeryPositive, true
	}
}

// Pool returns a copy of the messages for b.
func Pool(b Band) []string {
	return append([]string(nil), pools[b]...)
}

// Picker returns an index in [0,n).
type Picker func(n int) int

// Selector chooses affirmations. The zero value is not usable; use New.
type Selector struct {
	pick Picker
}

// New returns a Selector choosing uniformly at random.
func New() *Selector { return &Selector{pick: rand.Intn} }

// NewWithPicker returns a Selector using pick, for deterministic tests.
func NewWithPicker(pick Picker) *Selector { return &Selector{pick: pick} }

// Select returns one message from the band of score, or Fallback.
func (s *Selector) Select(score float64) string {
	band, ok := BandFor(score)
	if !ok {
		return Fallback
	}
	pool := pools[band]
	return pool[s.pick(len(pool))]
}
