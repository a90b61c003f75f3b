package model

import (
	"fmt"
	"time"
)

// TimestampLayout is the fixed text format of entry timestamps (DD/MM/YYYY HH:MM:SS).
const TimestampLayout = "02/01/2006 15:04:05"

// JournalEntry is a single journal submission.
// Sentiment is nil when no sentiment could be determined; otherwise it holds a
// two-decimal number in [0,10] as text.
type JournalEntry struct {
	ID            string  `json:"id"`
	Body          string  `json:"body"`
	Sentiment     *string `json:"sentiment"`
	Timestamp     string  `json:"timestamp"`
	LastTimestamp *string `json:"last_timestamp,omitempty"`
}

// Field names a persisted entry field.
type Field string

const (
	FieldBody          Field = "body"
	FieldSentiment     Field = "sentiment"
	FieldTimestamp     Field = "timestamp"
	FieldLastTimestamp Field = "last timestamp"
)

// Fields maps field names to text values; a nil value stands for null.
// It serves both as an update set and as an equality query.
type Fields map[Field]*string

// Validate rejects field names the stores do not know about.
func (f Fields) Validate() error {
	for k := range f {
		switch k {
		case FieldBody, FieldSentiment, FieldTimestamp, FieldLastTimestamp:
		default:
			return NewValidationError(string(k), "unknown field")
		}
	}
	return nil
}

// Value returns the field value of e for k.
func (e *JournalEntry) Value(k Field) *string {
	switch k {
	case FieldBody:
		return &e.Body
	case FieldSentiment:
		return e.Sentiment
	case FieldTimestamp:
		return &e.Timestamp
	case FieldLastTimestamp:
		return e.LastTimestamp
	}
	return nil
}

// Apply copies the given fields onto e. Callers validate field names first.
func (e *JournalEntry) Apply(f Fields) {
	for k, v := range f {
		switch k {
		case FieldBody:
			if v != nil {
				e.Body = *v
			}
		case FieldSentiment:
			e.Sentiment = cloneString(v)
		case FieldTimestamp:
			if v != nil {
				e.Timestamp = *v
			}
		case FieldLastTimestamp:
			e.LastTimestamp = cloneString(v)
		}
	}
}

// Matches reports whether every field in q equals the entry's value.
func (e *JournalEntry) Matches(q Fields) bool {
	for k, want := range q {
		got := e.Value(k)
		switch {
		case want == nil && got == nil:
		case want == nil || got == nil:
			return false
		case *want != *got:
			return false
		}
	}
	return true
}

// Clone returns a deep copy of e.
func (e *JournalEntry) Clone() *JournalEntry {
	out := *e
	out.Sentiment = cloneString(e.Sentiment)
	out.LastTimestamp = cloneString(e.LastTimestamp)
	return &out
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a TimestampLayout string in the local time zone.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// String returns a pointer to s.
func String(s string) *string { return &s }

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
