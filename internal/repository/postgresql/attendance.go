package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, user_id, work_date, time_in, time_out, break_in, break_out,
	time_in_image, time_out_image, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.AttendanceDay, error) {
	var d attendance.AttendanceDay
	err := row.Scan(
		&d.ID, &d.UserID, &d.WorkDate, &d.TimeIn, &d.TimeOut, &d.BreakIn, &d.BreakOut,
		&d.TimeInImage, &d.TimeOutImage, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, day attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_days (user_id, work_date, time_in, time_in_image)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, work_date) DO NOTHING
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query, day.UserID, day.WorkDate, day.TimeIn, day.TimeInImage))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return attendance.AttendanceDay{}, attendance.ErrAlreadyTimedIn
		}
		return attendance.AttendanceDay{}, fmt.Errorf("failed to create attendance day: %w", err)
	}

	return created, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, workDate string) (*attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_days
		WHERE user_id = $1 AND work_date = $2::date`

	day, err := scanAttendance(q.QueryRow(ctx, query, userID, workDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance day: %w", err)
	}

	return &day, nil
}

// StartBreak implements attendance.AttendanceRepository.
func (a *attendanceRepository) StartBreak(ctx context.Context, id string, at time.Time) (attendance.AttendanceDay, error) {
	return a.setOnce(ctx, id, "break_in", at, nil, attendance.ErrBreakAlreadyBegun)
}

// EndBreak implements attendance.AttendanceRepository.
func (a *attendanceRepository) EndBreak(ctx context.Context, id string, at time.Time) (attendance.AttendanceDay, error) {
	return a.setOnce(ctx, id, "break_out", at, nil, attendance.ErrBreakAlreadyEnded)
}

// SetTimeOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) SetTimeOut(ctx context.Context, id string, at time.Time, image *string) (attendance.AttendanceDay, error) {
	return a.setOnce(ctx, id, "time_out", at, image, attendance.ErrAlreadyTimedOut)
}

// setOnce writes column only while it is still NULL. A miss is either an
// unknown id or a column that was already set, reported as alreadySet.
func (a *attendanceRepository) setOnce(ctx context.Context, id, column string, at time.Time, image *string, alreadySet error) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	set := column + ` = $2`
	args := []interface{}{id, at}
	if column == "time_out" {
		set += `, time_out_image = $3`
		args = append(args, image)
	}

	query := fmt.Sprintf(`
		UPDATE attendance_days
		SET %s, updated_at = NOW()
		WHERE id = $1 AND %s IS NULL
		RETURNING %s`, set, column, attendanceColumns)

	day, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err == nil {
		return day, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.AttendanceDay{}, fmt.Errorf("failed to set %s: %w", column, err)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM attendance_days WHERE id = $1)`, id).Scan(&exists); err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("failed to check attendance day: %w", err)
	}
	if !exists {
		return attendance.AttendanceDay{}, attendance.ErrAttendanceNotFound
	}
	return attendance.AttendanceDay{}, alreadySet
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, filter attendance.ListFilter) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	where := []string{"user_id = $1"}
	args := []interface{}{userID}
	if filter.From != nil && filter.To != nil {
		args = append(args, *filter.From, *filter.To)
		where = append(where, fmt.Sprintf("time_in BETWEEN $%d AND $%d", len(args)-1, len(args)))
	}

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_days
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY time_in DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance days: %w", err)
	}
	defer rows.Close()

	days := []attendance.AttendanceDay{}
	for rows.Next() {
		day, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance days: %w", err)
	}

	return days, nil
}
