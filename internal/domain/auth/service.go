package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)

	// Logout revokes the token presented with the request
	Logout(ctx context.Context, token string) error
}
