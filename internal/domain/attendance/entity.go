package attendance

import (
	"time"
)

// AttendanceDay is one user's time record for one calendar day.
type AttendanceDay struct {
	ID     string
	UserID string

	// WorkDate is the calendar date of TimeIn in the configured zone.
	WorkDate time.Time

	TimeIn   *time.Time
	TimeOut  *time.Time
	BreakIn  *time.Time
	BreakOut *time.Time

	// Storage keys of the face-capture payloads, if any were sent.
	TimeInImage  *string
	TimeOutImage *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d AttendanceDay) HasTimedIn() bool  { return d.TimeIn != nil }
func (d AttendanceDay) HasTimedOut() bool { return d.TimeOut != nil }
func (d AttendanceDay) OnBreak() bool     { return d.BreakIn != nil && d.BreakOut == nil }
