package sentiment

import (
	"strconv"
)

// Reason explains why an entry was left unscored.
type Reason string

const (
	ReasonTooLong        Reason = "too_long"
	ReasonObjective      Reason = "objective"
	ReasonServiceFailure Reason = "service_failure"
)

// Result is the outcome of classifying a text: either a score or a reason for
// having none.
type Result struct {
	value  string
	reason Reason
}

// Scored builds a Result carrying a two-decimal score string.
func Scored(value string) Result { return Result{value: value} }

// Unscored builds a Result carrying no score.
func Unscored(reason Reason) Result { return Result{reason: reason} }

func (r Result) IsScored() bool { return r.reason == "" }

// Reason is empty for scored results.
func (r Result) Reason() Reason { return r.reason }

// Sentiment returns the stored form of the result: the score text, or nil.
func (r Result) Sentiment() *string {
	if !r.IsScored() {
		return nil
	}
	v := r.value
	return &v
}

// Score returns the numeric score.
func (r Result) Score() (float64, bool) {
	if !r.IsScored() {
		return 0, false
	}
	f, err := strconv.ParseFloat(r.value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Outcome is the metrics label for r.
func (r Result) Outcome() string {
	if r.IsScored() {
		return "scored"
	}
	return string(r.reason)
}

func (r Result) String() string {
	if r.IsScored() {
		return r.value
	}
	return "unscored(" + string(r.reason) + ")"
}
