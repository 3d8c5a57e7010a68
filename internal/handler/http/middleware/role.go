package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireRole admits tokens whose role claim is one of roles; denied is reported otherwise.
func RequireRole(denied error, roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok {
				response.HandleError(w, denied)
				return
			}

			for _, role := range roles {
				if user.Role(roleStr) == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.HandleError(w, denied)
		})
	}
}
