package jwt

import (
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jonboulle/clockwork"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenTTL time.Duration
	tokenAuth      *jwtauth.JWTAuth
	clock          clockwork.Clock

	// revokedTokens maps a token to its expiry so entries can be pruned.
	revokedTokens map[string]int64
	mu            sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, clock clockwork.Clock) (*JWTService, error) {
	ttl, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("parse access token expiration %q: %w", accessTokenExpirationTime, err)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &JWTService{
		accessTokenTTL: ttl,
		tokenAuth:      jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		clock:          clock,
		revokedTokens:  make(map[string]int64),
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = j.clock.Now().Add(j.accessTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.clock.Now().Unix()
	j.pruneLocked(now)
	j.revokedTokens[token] = now + int64(j.accessTokenTTL/time.Second)
}

// PruneRevoked forgets revocations whose tokens have expired and returns how many.
func (j *JWTService) PruneRevoked() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.pruneLocked(j.clock.Now().Unix())
}

func (j *JWTService) pruneLocked(now int64) int {
	pruned := 0
	for t, exp := range j.revokedTokens {
		if exp < now {
			delete(j.revokedTokens, t)
			pruned++
		}
	}
	return pruned
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}
