package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/validator"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	renderers map[report.Format]report.Renderer
	clock     clockwork.Clock
	loc       *time.Location
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	renderers map[report.Format]report.Renderer,
	clock clockwork.Clock,
	loc *time.Location,
) report.ReportService {
	return &ReportServiceImpl{
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		renderers:            renderers,
		clock:                clock,
		loc:                  loc,
	}
}

// UserHistory implements report.ReportService.
func (s *ReportServiceImpl) UserHistory(ctx context.Context, req report.HistoryRequest) (report.UserHistoryReport, error) {
	if err := req.Validate(); err != nil {
		return report.UserHistoryReport{}, err
	}

	u, days, err := s.load(ctx, req.UserID, attendance.ListFilter{})
	if err != nil {
		return report.UserHistoryReport{}, err
	}

	return s.build(u, days, report.HistoryRequest{}, s.clock.Now().In(s.loc)), nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.ExportRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	renderer, ok := s.renderers[req.Format]
	if !ok {
		return report.ExportFile{}, &report.ExportError{Format: req.Format, Cause: fmt.Errorf("no renderer registered")}
	}

	filter, err := s.rangeFilter(req.HistoryRequest)
	if err != nil {
		return report.ExportFile{}, &report.ExportError{Format: req.Format, Cause: err}
	}

	u, days, err := s.load(ctx, req.UserID, filter)
	if err != nil {
		return report.ExportFile{}, &report.ExportError{Format: req.Format, Cause: err}
	}

	now := s.clock.Now().In(s.loc)
	history := s.build(u, days, req.HistoryRequest, now)

	var buf bytes.Buffer
	if err := renderer.Render(&buf, history); err != nil {
		slog.Error("report rendering failed", "user_id", req.UserID, "format", req.Format, "error", err)
		return report.ExportFile{}, &report.ExportError{Format: req.Format, Cause: err}
	}

	slog.Info("report exported", "user_id", req.UserID, "format", req.Format, "records", len(days), "bytes", buf.Len())
	return report.ExportFile{
		Filename:    report.Filename(u.Name, req.HistoryRequest, now, req.Format),
		ContentType: renderer.ContentType(),
		Content:     buf.Bytes(),
	}, nil
}

// rangeFilter bounds time_in to [start 00:00, end 23:59:59.999999999] in the
// configured zone when both dates are set.
func (s *ReportServiceImpl) rangeFilter(req report.HistoryRequest) (attendance.ListFilter, error) {
	if !req.HasRange() {
		return attendance.ListFilter{}, nil
	}
	from, err := time.ParseInLocation(validator.DateLayout, req.StartDate, s.loc)
	if err != nil {
		return attendance.ListFilter{}, fmt.Errorf("parse start date: %w", err)
	}
	endDay, err := time.ParseInLocation(validator.DateLayout, req.EndDate, s.loc)
	if err != nil {
		return attendance.ListFilter{}, fmt.Errorf("parse end date: %w", err)
	}
	to := endDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return attendance.ListFilter{From: &from, To: &to}, nil
}

// load fetches the user and their records concurrently.
func (s *ReportServiceImpl) load(ctx context.Context, userID string, filter attendance.ListFilter) (user.User, []attendance.AttendanceDay, error) {
	var (
		u    user.User
		days []attendance.AttendanceDay
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		u, err = s.UserRepository.GetByID(gCtx, userID)
		if err != nil && !errors.Is(err, user.ErrUserNotFound) {
			return fmt.Errorf("failed to get user: %w", err)
		}
		return err
	})
	g.Go(func() error {
		var err error
		days, err = s.AttendanceRepository.ListByUser(gCtx, userID, filter)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return user.User{}, nil, err
	}

	return u, days, nil
}

func (s *ReportServiceImpl) build(u user.User, days []attendance.AttendanceDay, req report.HistoryRequest, now time.Time) report.UserHistoryReport {
	records := make([]attendance.AttendanceDayResponse, 0, len(days))
	for _, d := range days {
		records = append(records, attendance.NewAttendanceDayResponse(d, s.loc))
	}

	worked := attendance.TotalWorked(days)
	required := u.RequiredHours(attendance.ReportDefaultRequiredHours)

	history := report.UserHistoryReport{
		User:             user.NewUserResponse(u),
		GeneratedAt:      now.Format(attendance.TimestampLayout),
		Records:          records,
		TotalHoursWorked: attendance.DurationHours(worked),
		RequiredHours:    required,
		RemainingHours:   attendance.RemainingHours(required, worked),
	}
	if req.HasRange() {
		start, end := req.StartDate, req.EndDate
		history.StartDate, history.EndDate = &start, &end
	}
	return history
}
