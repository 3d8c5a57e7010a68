package user

import "context"

// UserService covers the admin-facing user operations.
type UserService interface {
	List(ctx context.Context) ([]UserResponse, error)
	Get(ctx context.Context, id string) (UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	UpdateHour(ctx context.Context, req UpdateHourRequest) (UserResponse, error)
}
