package attendance

import (
	"context"
)

// AttendanceService defines the time-record operations for the authenticated user
type AttendanceService interface {
	// Dashboard returns the user together with today's record, if any
	Dashboard(ctx context.Context, userID string) (DashboardResponse, error)

	// Today locates today's record; nil when the user has not timed in
	Today(ctx context.Context, userID string) (*AttendanceDay, error)

	// TimeIn creates today's record
	TimeIn(ctx context.Context, req TimeInRequest) (AttendanceDayResponse, error)

	// TimeOut closes today's record and recomputes the user's remaining hours
	TimeOut(ctx context.Context, req TimeOutRequest) (TimeOutResponse, error)

	// ToggleBreak starts the break, or ends it when already started
	ToggleBreak(ctx context.Context, userID string) (BreakResponse, error)
}
