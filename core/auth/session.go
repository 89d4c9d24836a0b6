package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrBadCredentials   = errors.New("authentication failed")
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the explicit auth context passed to the API client. It
// replaces any notion of a process-wide auth singleton: callers obtain it
// from Service and inject it where needed.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (s Session) Authenticated() bool { return s.Token != "" }

// Expired inspects the token's exp claim without verifying the signature;
// the backend owns the signing key and is the authority on validity.
func (s Session) Expired(now time.Time) bool {
	if s.Token == "" {
		return true
	}
	claims := new(jwt.RegisteredClaims)
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return false // opaque token, let the backend decide
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}

// ExtractToken pulls the bare token out of an Authorization header value.
func ExtractToken(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
}

// Store persists a session between runs.
type Store interface {
	Load() (Session, error)
	Save(s Session) error
	Clear() error
}
