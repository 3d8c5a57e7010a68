package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/dtr-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/dtr-backend-go/internal/service/capture"
	"github.com/jonboulle/clockwork"
)

type AttendanceServiceImpl struct {
	tx postgresql.Transactor
	attendance.AttendanceRepository
	user.UserRepository
	captures capture.CaptureService
	clock    clockwork.Clock
	loc      *time.Location
}

func NewAttendanceService(
	tx postgresql.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	captures capture.CaptureService,
	clock clockwork.Clock,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		captures:             captures,
		clock:                clock,
		loc:                  loc,
	}
}

// now returns the current instant in the configured zone.
func (a *AttendanceServiceImpl) now() time.Time {
	return a.clock.Now().In(a.loc)
}

// workDate is the calendar date of t as a UTC midnight, the form stored in work_date.
func workDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context, userID string) (*attendance.AttendanceDay, error) {
	day, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, a.now().Format(validator.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to get today's record: %w", err)
	}
	return day, nil
}

// Dashboard implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Dashboard(ctx context.Context, userID string) (attendance.DashboardResponse, error) {
	u, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return attendance.DashboardResponse{}, err
		}
		return attendance.DashboardResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	day, err := a.Today(ctx, userID)
	if err != nil {
		return attendance.DashboardResponse{}, err
	}

	resp := attendance.DashboardResponse{
		User:      user.NewUserResponse(u),
		Date:      a.now().Format(validator.DateLayout),
		CanTimeIn: day == nil,
	}
	if day != nil {
		log := attendance.NewAttendanceDayResponse(*day, a.loc)
		resp.TodaysLog = &log
		resp.CanTimeOut = !day.HasTimedOut()
		resp.OnBreak = day.OnBreak()
	}
	return resp, nil
}

// TimeIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TimeIn(ctx context.Context, req attendance.TimeInRequest) (attendance.AttendanceDayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceDayResponse{}, err
	}

	existing, err := a.Today(ctx, req.UserID)
	if err != nil {
		return attendance.AttendanceDayResponse{}, err
	}
	if existing != nil && existing.HasTimedIn() {
		return attendance.AttendanceDayResponse{}, attendance.ErrAlreadyTimedIn
	}

	now := a.now()
	image, err := a.saveCapture(ctx, req.UserID, now, capture.KindTimeIn, req.FaceData)
	if err != nil {
		return attendance.AttendanceDayResponse{}, err
	}

	created, err := a.AttendanceRepository.Create(ctx, attendance.AttendanceDay{
		UserID:      req.UserID,
		WorkDate:    workDate(now),
		TimeIn:      &now,
		TimeInImage: image,
	})
	if err != nil {
		a.discardCapture(ctx, image)
		if errors.Is(err, attendance.ErrAlreadyTimedIn) {
			return attendance.AttendanceDayResponse{}, err
		}
		return attendance.AttendanceDayResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	slog.Info("user timed in", "user_id", req.UserID, "attendance_id", created.ID)
	return attendance.NewAttendanceDayResponse(created, a.loc), nil
}

// TimeOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TimeOut(ctx context.Context, req attendance.TimeOutRequest) (attendance.TimeOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.TimeOutResponse{}, err
	}

	day, err := a.Today(ctx, req.UserID)
	if err != nil {
		return attendance.TimeOutResponse{}, err
	}
	if day == nil {
		return attendance.TimeOutResponse{}, attendance.ErrNotTimedIn
	}
	if day.HasTimedOut() {
		return attendance.TimeOutResponse{}, attendance.ErrAlreadyTimedOut
	}

	now := a.now()
	image, err := a.saveCapture(ctx, req.UserID, now, capture.KindTimeOut, req.FaceData)
	if err != nil {
		return attendance.TimeOutResponse{}, err
	}

	var (
		updated   attendance.AttendanceDay
		remaining *float64
	)
	err = a.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = a.AttendanceRepository.SetTimeOut(txCtx, day.ID, now, image)
		if err != nil {
			return err
		}

		u, err := a.UserRepository.GetByID(txCtx, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		required := u.RequiredHours(attendance.TimeOutDefaultRequiredHours)
		if required <= 0 || !updated.HasTimedIn() {
			return nil
		}

		hours := attendance.RemainingHours(required, updated.WorkedDuration())
		if err := a.UserRepository.UpdateRemainingHours(txCtx, req.UserID, hours); err != nil {
			return fmt.Errorf("failed to update remaining hours: %w", err)
		}
		remaining = &hours
		return nil
	})
	if err != nil {
		a.discardCapture(ctx, image)
		if errors.Is(err, attendance.ErrAlreadyTimedOut) {
			return attendance.TimeOutResponse{}, err
		}
		return attendance.TimeOutResponse{}, fmt.Errorf("failed to time out: %w", err)
	}

	logArgs := []any{"user_id", req.UserID, "attendance_id", updated.ID}
	if remaining != nil {
		logArgs = append(logArgs, "remaining_hours", *remaining)
	}
	slog.Info("user timed out", logArgs...)
	return attendance.TimeOutResponse{
		Log:            attendance.NewAttendanceDayResponse(updated, a.loc),
		RemainingHours: remaining,
	}, nil
}

// ToggleBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ToggleBreak(ctx context.Context, userID string) (attendance.BreakResponse, error) {
	day, err := a.Today(ctx, userID)
	if err != nil {
		return attendance.BreakResponse{}, err
	}
	if day == nil {
		return attendance.BreakResponse{}, attendance.ErrNotTimedIn
	}

	var (
		updated attendance.AttendanceDay
		action  attendance.BreakAction
	)
	switch {
	case day.BreakIn == nil:
		updated, err = a.AttendanceRepository.StartBreak(ctx, day.ID, a.now())
		action = attendance.BreakStarted
	case day.BreakOut == nil:
		updated, err = a.AttendanceRepository.EndBreak(ctx, day.ID, a.now())
		action = attendance.BreakEnded
	default:
		return attendance.BreakResponse{}, attendance.ErrBreakAlreadyEnded
	}
	if err != nil {
		if errors.Is(err, attendance.ErrBreakAlreadyBegun) || errors.Is(err, attendance.ErrBreakAlreadyEnded) {
			return attendance.BreakResponse{}, err
		}
		return attendance.BreakResponse{}, fmt.Errorf("failed to toggle break: %w", err)
	}

	slog.Info("break toggled", "user_id", userID, "action", action)
	return attendance.BreakResponse{
		Action: action,
		Log:    attendance.NewAttendanceDayResponse(updated, a.loc),
	}, nil
}

func (a *AttendanceServiceImpl) saveCapture(ctx context.Context, userID string, now time.Time, kind capture.Kind, payload *string) (*string, error) {
	if payload == nil || *payload == "" {
		return nil, nil
	}
	key, err := a.captures.Save(ctx, userID, workDate(now), kind, *payload)
	if err != nil {
		return nil, fmt.Errorf("failed to save capture: %w", err)
	}
	return &key, nil
}

// discardCapture removes a capture stored for a write that did not happen.
func (a *AttendanceServiceImpl) discardCapture(ctx context.Context, key *string) {
	if key == nil {
		return
	}
	if err := a.captures.Delete(ctx, *key); err != nil {
		slog.Warn("failed to discard orphaned capture", "key", *key, "error", err)
	}
}
