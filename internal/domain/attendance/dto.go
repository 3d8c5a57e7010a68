package attendance

import (
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/validator"
)

// MaxFaceDataBytes caps the capture payload accepted with time-in/out.
const MaxFaceDataBytes = 10 << 20

const TimestampLayout = "2006-01-02 15:04:05"

// ========================================
// TIME RECORD DTOs
// ========================================

type TimeInRequest struct {
	UserID   string  `json:"-"`
	FaceData *string `json:"face_data,omitempty"`
}

func (r *TimeInRequest) Validate() error {
	return validateCapture(r.UserID, r.FaceData)
}

type TimeOutRequest struct {
	UserID   string  `json:"-"`
	FaceData *string `json:"face_data,omitempty"`
}

func (r *TimeOutRequest) Validate() error {
	return validateCapture(r.UserID, r.FaceData)
}

func validateCapture(userID string, faceData *string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(userID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if faceData != nil && len(*faceData) > MaxFaceDataBytes {
		errs = append(errs, validator.ValidationError{
			Field:   "face_data",
			Message: "face_data must not exceed 10MB",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceDayResponse struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	Date         string   `json:"date"`
	TimeIn       *string  `json:"time_in"`
	TimeOut      *string  `json:"time_out"`
	BreakIn      *string  `json:"break_in"`
	BreakOut     *string  `json:"break_out"`
	TimeInImage  *string  `json:"time_in_image,omitempty"`
	TimeOutImage *string  `json:"time_out_image,omitempty"`
	WorkedHours  *float64 `json:"worked_hours,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// timePtrToString formats t in loc, or returns nil.
func timePtrToString(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	format := t.In(loc).Format(TimestampLayout)
	return &format
}

func NewAttendanceDayResponse(d AttendanceDay, loc *time.Location) AttendanceDayResponse {
	var worked *float64
	if d.TimeIn != nil && d.TimeOut != nil {
		hours := d.WorkedHours()
		worked = &hours
	}

	return AttendanceDayResponse{
		ID:           d.ID,
		UserID:       d.UserID,
		Date:         d.WorkDate.Format(validator.DateLayout),
		TimeIn:       timePtrToString(d.TimeIn, loc),
		TimeOut:      timePtrToString(d.TimeOut, loc),
		BreakIn:      timePtrToString(d.BreakIn, loc),
		BreakOut:     timePtrToString(d.BreakOut, loc),
		TimeInImage:  d.TimeInImage,
		TimeOutImage: d.TimeOutImage,
		WorkedHours:  worked,
		CreatedAt:    d.CreatedAt.In(loc).Format(TimestampLayout),
		UpdatedAt:    d.UpdatedAt.In(loc).Format(TimestampLayout),
	}
}

type TimeOutResponse struct {
	Log AttendanceDayResponse `json:"log"`
	// RemainingHours is nil when the recompute was skipped.
	RemainingHours *float64 `json:"remaining_hours"`
}

type BreakAction string

const (
	BreakStarted BreakAction = "started"
	BreakEnded   BreakAction = "ended"
)

type BreakResponse struct {
	Action BreakAction           `json:"action"`
	Log    AttendanceDayResponse `json:"log"`
}

func (b BreakResponse) Message() string {
	if b.Action == BreakStarted {
		return "Break started!"
	}
	return "Break ended!"
}

// ========================================
// DASHBOARD DTOs
// ========================================

type DashboardResponse struct {
	User       user.UserResponse      `json:"user"`
	Date       string                 `json:"date"`
	TodaysLog  *AttendanceDayResponse `json:"todays_log"`
	CanTimeIn  bool                   `json:"can_time_in"`
	CanTimeOut bool                   `json:"can_time_out"`
	OnBreak    bool                   `json:"on_break"`
}
