package attendance

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/dtr-backend-go/internal/service/capture"
)

type fakeAttendanceRepo struct {
	mu     sync.Mutex
	days   map[string]attendance.AttendanceDay
	nextID int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{days: map[string]attendance.AttendanceDay{}}
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, day attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.days {
		if d.UserID == day.UserID && d.WorkDate.Equal(day.WorkDate) {
			return attendance.AttendanceDay{}, attendance.ErrAlreadyTimedIn
		}
	}
	r.nextID++
	day.ID = fmt.Sprintf("day-%d", r.nextID)
	day.CreatedAt, day.UpdatedAt = *day.TimeIn, *day.TimeIn
	r.days[day.ID] = day
	return day, nil
}

func (r *fakeAttendanceRepo) GetByUserAndDate(ctx context.Context, userID string, workDate string) (*attendance.AttendanceDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.days {
		if d.UserID == userID && d.WorkDate.Format(validator.DateLayout) == workDate {
			return &d, nil
		}
	}
	return nil, nil
}

func (r *fakeAttendanceRepo) update(id string, apply func(d *attendance.AttendanceDay) error) (attendance.AttendanceDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.days[id]
	if !ok {
		return attendance.AttendanceDay{}, attendance.ErrAttendanceNotFound
	}
	if err := apply(&d); err != nil {
		return attendance.AttendanceDay{}, err
	}
	r.days[id] = d
	return d, nil
}

func (r *fakeAttendanceRepo) StartBreak(ctx context.Context, id string, at time.Time) (attendance.AttendanceDay, error) {
	return r.update(id, func(d *attendance.AttendanceDay) error {
		if d.BreakIn != nil {
			return attendance.ErrBreakAlreadyBegun
		}
		d.BreakIn = &at
		return nil
	})
}

func (r *fakeAttendanceRepo) EndBreak(ctx context.Context, id string, at time.Time) (attendance.AttendanceDay, error) {
	return r.update(id, func(d *attendance.AttendanceDay) error {
		if d.BreakOut != nil {
			return attendance.ErrBreakAlreadyEnded
		}
		d.BreakOut = &at
		return nil
	})
}

func (r *fakeAttendanceRepo) SetTimeOut(ctx context.Context, id string, at time.Time, image *string) (attendance.AttendanceDay, error) {
	return r.update(id, func(d *attendance.AttendanceDay) error {
		if d.TimeOut != nil {
			return attendance.ErrAlreadyTimedOut
		}
		d.TimeOut = &at
		d.TimeOutImage = image
		return nil
	})
}

func (r *fakeAttendanceRepo) ListByUser(ctx context.Context, userID string, filter attendance.ListFilter) ([]attendance.AttendanceDay, error) {
	return nil, nil
}

// put seeds a record directly.
func (r *fakeAttendanceRepo) put(d attendance.AttendanceDay) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.days[d.ID] = d
}

func (r *fakeAttendanceRepo) get(id string) attendance.AttendanceDay {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.days[id]
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]user.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]user.User, error) { return nil, nil }

func (r *fakeUserRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	return newUser, nil
}

func (r *fakeUserRepo) UpdateHour(ctx context.Context, id string, hour *int) (user.User, error) {
	return user.User{}, nil
}

func (r *fakeUserRepo) UpdateRemainingHours(ctx context.Context, id string, remaining float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.RemainingHours = &remaining
	r.users[id] = u
	return nil
}

// fakeTx runs fn directly and counts the calls.
type fakeTx struct {
	calls int
}

func (t *fakeTx) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakeCaptures struct {
	mu      sync.Mutex
	saved   map[string]string
	deleted []string
	n       int
}

func newFakeCaptures() *fakeCaptures {
	return &fakeCaptures{saved: map[string]string{}}
}

func (c *fakeCaptures) Save(ctx context.Context, userID string, workDate time.Time, kind capture.Kind, payload string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	key := fmt.Sprintf("captures/%s/%s/%s-%d.bin", userID, workDate.Format(validator.DateLayout), kind, c.n)
	c.saved[key] = payload
	return key, nil
}

func (c *fakeCaptures) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.saved, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *fakeCaptures) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.saved[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(strings.NewReader(payload)), nil
}
