package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// currentUserID reads the user_id claim placed by the auth middleware.
func currentUserID(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", auth.ErrInvalidToken
	}
	return userID, nil
}

// decodeOptionalJSON decodes the body into v; an empty body leaves v untouched.
func decodeOptionalJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func currentRole(r *http.Request) user.Role {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return user.Role(role)
}
