package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	sessionDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/session"
	"github.com/frahmantamala/asset-management/internal/user"
)

type ctxKey string

const ContextUserKey ctxKey = "auth_user"

// SessionUser is the sanitized projection attached to the request context.
// It intentionally carries nothing a downstream handler should not serialize.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// SessionStore is the capability contract the middleware depends on, so tests
// can substitute an in-memory fake for the database-backed implementation.
type SessionStore interface {
	Create(sess *sessionDatamodel.Session) error
	GetByToken(token string) (*sessionDatamodel.Session, error)
	Delete(token string) error
	DeleteExpired() error
}

// UserStore resolves credentials and user records for authentication.
type UserStore interface {
	GetByLogin(login string) (*user.User, error)
	GetByID(id int64) (*user.User, error)
	UpdateLastLogin(id int64, at time.Time) error
}

type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GenerateSessionToken returns a 64-char hex token from crypto/rand. Tokens
// are opaque: all meaning lives in the sessions table.
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func UserFromContext(ctx context.Context) (*SessionUser, bool) {
	u, ok := ctx.Value(ContextUserKey).(*SessionUser)
	return u, ok && u != nil
}

func ContextWithUser(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}
