// Package model defines the core entities of the exercise tracker.
//
// Two record types exist: User and LogEntry. A User owns an ordered,
// append-only list of LogEntry ids (LogRefs). LogEntries are stored
// independently of the users that reference them.
package model

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format for exercise dates. Comparisons and
// storage are date-only; time of day is normalized away.
const DateLayout = "2006-01-02"

// User is a tracked account. Username is unique across all users
// (case-sensitive exact match). LogRefs grows by append only and is
// never reordered or deduplicated.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	LogRefs  []string `json:"-"`
}

// LogEntry is one exercise record. Duration is in minutes.
type LogEntry struct {
	ID          string
	Description string
	Duration    float64
	Date        time.Time
}

// MarshalJSON renders the entry the way the log endpoint exposes it:
// description, duration, and the date-only form of Date.
func (e LogEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Description string  `json:"description"`
		Duration    float64 `json:"duration"`
		Date        string  `json:"date"`
	}{
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.Date.Format(DateLayout),
	})
}

// NormalizeDate truncates t to midnight UTC of its calendar day.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date, normalized.
func Today() time.Time {
	return NormalizeDate(time.Now())
}
