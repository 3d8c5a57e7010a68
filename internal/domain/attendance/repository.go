package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance days.
// Mutations are conditional so concurrent requests for the same user cannot both apply.
type AttendanceRepository interface {
	// Create inserts the day; ErrAlreadyTimedIn if (user, work date) already exists
	Create(ctx context.Context, day AttendanceDay) (AttendanceDay, error)

	// GetByUserAndDate returns nil, nil when the user has no record for the date
	GetByUserAndDate(ctx context.Context, userID string, workDate string) (*AttendanceDay, error)

	// StartBreak sets break_in; ErrBreakAlreadyBegun if it was already set
	StartBreak(ctx context.Context, id string, at time.Time) (AttendanceDay, error)

	// EndBreak sets break_out; ErrBreakAlreadyEnded if it was already set
	EndBreak(ctx context.Context, id string, at time.Time) (AttendanceDay, error)

	// SetTimeOut sets time_out; ErrAlreadyTimedOut if it was already set
	SetTimeOut(ctx context.Context, id string, at time.Time, image *string) (AttendanceDay, error)

	// ListByUser returns days ordered by time_in descending, optionally bounded on time_in
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]AttendanceDay, error)
}

// ListFilter bounds time_in inclusively when both ends are set.
type ListFilter struct {
	From *time.Time
	To   *time.Time
}
