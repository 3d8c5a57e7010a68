package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyTimedIn     = errors.New("you have already timed in today")
	ErrAlreadyTimedOut    = errors.New("you have already timed out today")
	ErrNotTimedIn         = errors.New("you need to time in first")
	ErrBreakAlreadyEnded  = errors.New("your break for today has already ended")
	ErrBreakAlreadyBegun  = errors.New("your break has already started")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
