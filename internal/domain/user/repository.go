package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)
	UpdateHour(ctx context.Context, id string, hour *int) (User, error)
	UpdateRemainingHours(ctx context.Context, id string, remaining float64) error
}
