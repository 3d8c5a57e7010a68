package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "123e4567-e89b-12d3-a456-426614174000"

var manila = time.FixedZone("PHT", 8*60*60)

type testEnv struct {
	svc      attendance.AttendanceService
	days     *fakeAttendanceRepo
	users    *fakeUserRepo
	tx       *fakeTx
	captures *fakeCaptures
	clock    *clockwork.FakeClock
}

func intPtr(i int) *int { return &i }

func at(hour, min int) time.Time {
	return time.Date(2024, 1, 15, hour, min, 0, 0, manila)
}

func newTestEnv(t *testing.T, hour *int) *testEnv {
	t.Helper()
	env := &testEnv{
		days:     newFakeAttendanceRepo(),
		users:    newFakeUserRepo(user.User{ID: testUserID, Name: "Jane Doe", Email: "jane@example.com", Role: user.RoleEmployee, Hour: hour}),
		tx:       &fakeTx{},
		captures: newFakeCaptures(),
		clock:    clockwork.NewFakeClockAt(at(9, 0)),
	}
	env.svc = NewAttendanceService(env.tx, env.days, env.users, env.captures, env.clock, manila)
	return env
}

func (e *testEnv) moveTo(t time.Time) {
	e.clock.Advance(t.Sub(e.clock.Now()))
}

func TestTimeIn_CreatesTodaysRecord(t *testing.T) {
	env := newTestEnv(t, intPtr(8))
	ctx := context.Background()

	resp, err := env.svc.TimeIn(ctx, attendance.TimeInRequest{UserID: testUserID})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", resp.Date)
	require.NotNil(t, resp.TimeIn)
	assert.Equal(t, "2024-01-15 09:00:00", *resp.TimeIn)
	assert.Nil(t, resp.TimeOut)
	assert.Nil(t, resp.TimeInImage)

	today, err := env.svc.Today(ctx, testUserID)
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, resp.ID, today.ID)
}

func TestTimeIn_TwiceSameDay(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	first, err := env.svc.TimeIn(ctx, attendance.TimeInRequest{UserID: testUserID})
	require.NoError(t, err)

	env.moveTo(at(10, 0))
	_, err = env.svc.TimeIn(ctx, attendance.TimeInRequest{UserID: testUserID})
	assert.ErrorIs(t, err, attendance.ErrAlreadyTimedIn)

	stored := env.days.get(first.ID)
	assert.True(t, stored.TimeIn.Equal(at(9, 0)), "original time_in unchanged")
}

func TestTimeIn_NextDayIsNewRecord(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.svc.TimeIn(ctx, attendance.TimeInRequest{UserID: testUserID})
	require.NoError(t, err)

	env.clock.Advance(24 * time.Hour)
	resp, err := env.svc.TimeIn(ctx, attendance.TimeInRequest{UserID: testUserID})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-16", resp.Date)
}

func TestTimeIn_StoresCapture(t *testing.T) {
	env := newTestEnv(t, nil)
	payload := "data:image/png;base64,AAAA"

	resp, err := env.svc.TimeIn(context.Background(), attendance.TimeInRequest{UserID: testUserID, FaceData: &payload})
	require.NoError(t, err)
	require.NotNil(t, resp.TimeInImage)
	assert.Equal(t, payload, env.captures.saved[*resp.TimeInImage])
}

func TestToggleBreak(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.svc.ToggleBreak(ctx, testUserID)
	assert.ErrorIs(t, err, attendance.ErrNotTimedIn)

	_, err = env.svc.TimeIn(ctx, attendance.TimeInRequest{UserID: testUserID})
	require.NoError(t, err)

	env.moveTo(at(12, 0))
	started, err := env.svc.ToggleBreak(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, attendance.BreakStarted, started.Action)
	assert.Equal(t, "Break started!", started.Message())
	require.NotNil(t, started.Log.BreakIn)
	assert.Nil(t, started.Log.BreakOut)

	env.moveTo(at(13, 0))
	ended, err := env.svc.ToggleBreak(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, attendance.BreakEnded, ended.Action)
	assert.Equal(t, "Break ended!", ended.Message())
	assert.Equal(t, "2024-01-15 12:00:00", *ended.Log.BreakIn)
	assert.Equal(t, "2024-01-15 13:00:00", *ended.Log.BreakOut)

	env.moveTo(at(14, 0))
	_, err = env.svc.ToggleBreak(ctx, testUserID)
	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyEnded)

	today, err := env.svc.Today(ctx, testUserID)
	require.NoError(t, err)
	assert.True(t, today.BreakOut.Equal(at(13, 0)), "break_out unchanged")
}

func TestTimeOut_NotTimedIn(t *testing.T) {
	env := newTestEnv(t, intPtr(8))

	_, err := env.svc.TimeOut(context.Background(), attendance.TimeOutRequest{UserID: testUserID})
	assert.ErrorIs(t, err, attendance.ErrNotTimedIn)
	assert.Zero(t, env.tx.calls)
}

func TestTimeOut_RemainingHours(t *testing.T) {
	cases := []struct {
		name      string
		hour      *int
		breakFrom *time.Time
		breakTo   *time.Time
		out       time.Time
		want      *float64
	}{
		{
			name:      "full day with break",
			hour:      intPtr(8),
			breakFrom: ptr(at(12, 0)),
			breakTo:   ptr(at(13, 0)),
			out:       at(18, 0),
			want:      floatPtr(0),
		},
		{
			name: "short day without break",
			hour: intPtr(8),
			out:  at(15, 0),
			want: floatPtr(2),
		},
		{
			name: "fractional remainder",
			hour: intPtr(8),
			out:  at(15, 20),
			want: floatPtr(1.67),
		},
		{
			name: "zero hours skips recompute",
			hour: intPtr(0),
			out:  at(15, 0),
			want: nil,
		},
		{
			name: "unset hours skips recompute",
			hour: nil,
			out:  at(15, 0),
			want: nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := newTestEnv(t, c.hour)
			ctx := context.Background()

			cached := 99.0
			u := env.users.users[testUserID]
			u.RemainingHours = &cached
			env.users.users[testUserID] = u

			env.days.put(attendance.AttendanceDay{
				ID:       "day-1",
				UserID:   testUserID,
				WorkDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				TimeIn:   ptr(at(9, 0)),
				BreakIn:  c.breakFrom,
				BreakOut: c.breakTo,
			})

			env.moveTo(c.out)
			resp, err := env.svc.TimeOut(ctx, attendance.TimeOutRequest{UserID: testUserID})
			require.NoError(t, err)
			assert.Equal(t, 1, env.tx.calls)

			stored, err := env.users.GetByID(ctx, testUserID)
			require.NoError(t, err)
			if c.want == nil {
				assert.Nil(t, resp.RemainingHours)
				assert.Equal(t, cached, *stored.RemainingHours)
				return
			}
			require.NotNil(t, resp.RemainingHours)
			assert.Equal(t, *c.want, *resp.RemainingHours)
			assert.Equal(t, *c.want, *stored.RemainingHours)
		})
	}
}

func TestTimeOut_Twice(t *testing.T) {
	env := newTestEnv(t, intPtr(8))
	ctx := context.Background()

	_, err := env.svc.TimeIn(ctx, attendance.TimeInRequest{UserID: testUserID})
	require.NoError(t, err)

	env.moveTo(at(17, 0))
	first, err := env.svc.TimeOut(ctx, attendance.TimeOutRequest{UserID: testUserID})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15 17:00:00", *first.Log.TimeOut)

	env.moveTo(at(18, 0))
	_, err = env.svc.TimeOut(ctx, attendance.TimeOutRequest{UserID: testUserID})
	assert.ErrorIs(t, err, attendance.ErrAlreadyTimedOut)

	stored := env.days.get(first.Log.ID)
	assert.True(t, stored.TimeOut.Equal(at(17, 0)), "time_out unchanged")
}

func TestTimeOut_CaptureDiscardedOnConflict(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	// Record looks open to the lookup but is closed by the time the update runs.
	env.days.put(attendance.AttendanceDay{
		ID:       "day-1",
		UserID:   testUserID,
		WorkDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		TimeIn:   ptr(at(9, 0)),
	})
	_, err := env.days.SetTimeOut(ctx, "day-1", at(16, 0), nil)
	require.NoError(t, err)
	stale := &staleDayRepo{fakeAttendanceRepo: env.days}
	svc := NewAttendanceService(env.tx, stale, env.users, env.captures, env.clock, manila)

	payload := "face"
	_, err = svc.TimeOut(ctx, attendance.TimeOutRequest{UserID: testUserID, FaceData: &payload})
	assert.ErrorIs(t, err, attendance.ErrAlreadyTimedOut)
	assert.Len(t, env.captures.deleted, 1)
	assert.Empty(t, env.captures.saved)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t, intPtr(8))
	ctx := context.Background()

	dash, err := env.svc.Dashboard(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", dash.User.Name)
	assert.Equal(t, "2024-01-15", dash.Date)
	assert.Nil(t, dash.TodaysLog)
	assert.True(t, dash.CanTimeIn)
	assert.False(t, dash.CanTimeOut)

	_, err = env.svc.TimeIn(ctx, attendance.TimeInRequest{UserID: testUserID})
	require.NoError(t, err)
	_, err = env.svc.ToggleBreak(ctx, testUserID)
	require.NoError(t, err)

	dash, err = env.svc.Dashboard(ctx, testUserID)
	require.NoError(t, err)
	require.NotNil(t, dash.TodaysLog)
	assert.False(t, dash.CanTimeIn)
	assert.True(t, dash.CanTimeOut)
	assert.True(t, dash.OnBreak)

	_, err = env.svc.Dashboard(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

// staleDayRepo hides time_out from lookups to simulate a concurrent time-out.
type staleDayRepo struct {
	*fakeAttendanceRepo
}

func (r *staleDayRepo) GetByUserAndDate(ctx context.Context, userID string, workDate string) (*attendance.AttendanceDay, error) {
	d, err := r.fakeAttendanceRepo.GetByUserAndDate(ctx, userID, workDate)
	if d != nil {
		d.TimeOut = nil
	}
	return d, err
}

func ptr(t time.Time) *time.Time   { return &t }
func floatPtr(f float64) *float64 { return &f }
