package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestAttendanceRepository_Lifecycle(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(db)
	repo := postgresql.NewAttendanceRepository(db)

	u := createUser(t, users, "jane@example.com", nil)
	timeIn := time.Date(2024, 1, 15, 1, 0, 0, 0, time.UTC)
	workDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	day, err := repo.Create(ctx, attendance.AttendanceDay{UserID: u.ID, WorkDate: workDate, TimeIn: &timeIn})
	require.NoError(t, err)
	assert.True(t, day.TimeIn.Equal(timeIn))

	_, err = repo.Create(ctx, attendance.AttendanceDay{UserID: u.ID, WorkDate: workDate, TimeIn: timePtr(timeIn.Add(time.Hour))})
	assert.ErrorIs(t, err, attendance.ErrAlreadyTimedIn)

	found, err := repo.GetByUserAndDate(ctx, u.ID, "2024-01-15")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, day.ID, found.ID)
	assert.True(t, found.TimeIn.Equal(timeIn), "time_in unchanged by the rejected insert")

	missing, err := repo.GetByUserAndDate(ctx, u.ID, "2024-01-16")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.StartBreak(ctx, day.ID, timeIn.Add(3*time.Hour))
	require.NoError(t, err)
	_, err = repo.StartBreak(ctx, day.ID, timeIn.Add(4*time.Hour))
	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyBegun)

	_, err = repo.EndBreak(ctx, day.ID, timeIn.Add(4*time.Hour))
	require.NoError(t, err)
	_, err = repo.EndBreak(ctx, day.ID, timeIn.Add(5*time.Hour))
	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyEnded)

	image := "captures/x.bin"
	out, err := repo.SetTimeOut(ctx, day.ID, timeIn.Add(9*time.Hour), &image)
	require.NoError(t, err)
	require.NotNil(t, out.TimeOutImage)
	assert.Equal(t, image, *out.TimeOutImage)
	assert.Equal(t, 8*time.Hour, out.WorkedDuration())

	_, err = repo.SetTimeOut(ctx, day.ID, timeIn.Add(10*time.Hour), nil)
	assert.ErrorIs(t, err, attendance.ErrAlreadyTimedOut)

	_, err = repo.SetTimeOut(ctx, "123e4567-e89b-12d3-a456-426614174000", timeIn, nil)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_ListByUser(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(db)
	repo := postgresql.NewAttendanceRepository(db)

	u := createUser(t, users, "jane@example.com", nil)
	for _, d := range []int{1, 15, 31} {
		in := time.Date(2024, 1, d, 9, 0, 0, 0, time.UTC)
		_, err := repo.Create(ctx, attendance.AttendanceDay{
			UserID:   u.ID,
			WorkDate: time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC),
			TimeIn:   &in,
		})
		require.NoError(t, err)
	}

	all, err := repo.ListByUser(ctx, u.ID, attendance.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 31, all[0].TimeIn.UTC().Day(), "newest first")

	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	filtered, err := repo.ListByUser(ctx, u.ID, attendance.ListFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 15, filtered[0].TimeIn.UTC().Day())
}

func TestWithTransaction_RollsBack(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(db)
	u := createUser(t, users, "jane@example.com", nil)

	tx := postgresql.NewTransactor(db)
	err := tx.WithinTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, users.UpdateRemainingHours(txCtx, u.ID, 3))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RemainingHours)
}
