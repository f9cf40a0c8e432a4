package calendar

import "time"

// MeetingInput is the transient request for a new meeting. Zero values
// mean defaults: summary DefaultSummary, start now, duration
// DefaultDuration.
type MeetingInput struct {
	Summary  string
	Start    time.Time
	Duration time.Duration
}

// Meeting is the result of a successful meeting creation. The calendar
// provider is the system of record; nothing here is persisted locally.
type Meeting struct {
	MeetingLink string
	MeetingID   string
	EventID     string
	Summary     string
	Start       time.Time
	End         time.Time
}
