package auth

import (
	"log/slog"
	"time"

	errors "github.com/frahmantamala/asset-management/internal"
	sessionDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/session"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.NewUnauthorizedError("invalid username or password", "INVALID_CREDENTIALS")
	ErrUserInactive       = errors.NewForbiddenError("user account is inactive", "USER_INACTIVE")
)

type Service struct {
	users         UserStore
	sessions      SessionStore
	sessionTTL    time.Duration
	rememberMeTTL time.Duration
	logger        *slog.Logger
}

func NewService(users UserStore, sessions SessionStore, sessionTTL, rememberMeTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		users:         users,
		sessions:      sessions,
		sessionTTL:    sessionTTL,
		rememberMeTTL: rememberMeTTL,
		logger:        logger,
	}
}

// Login verifies credentials and issues an opaque session token. Unknown
// users and wrong passwords return the same error so the response does not
// reveal which usernames exist.
func (s *Service) Login(dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByLogin(dto.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, ErrUserInactive
	}

	token, err := GenerateSessionToken()
	if err != nil {
		return nil, errors.NewInternalError("failed to generate session token", err)
	}

	ttl := s.sessionTTL
	if dto.RememberMe {
		ttl = s.rememberMeTTL
	}
	expiresAt := time.Now().Add(ttl)

	sess := &sessionDatamodel.Session{
		Token:     token,
		UserID:    u.ID,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Create(sess); err != nil {
		s.logger.Error("failed to persist session", "error", err, "user_id", u.ID)
		return nil, errors.NewInternalError("failed to create session", err)
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(u.ID, now); err != nil {
		// last_login is best effort, a failed update must not fail the login
		s.logger.Warn("failed to update last login", "error", err, "user_id", u.ID)
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      sessionUserFrom(u),
	}, nil
}

// ValidateSession resolves an opaque token to its user. Missing and expired
// sessions both surface as ErrInvalidSession; only store failures become
// internal errors.
func (s *Service) ValidateSession(token string) (*SessionUser, error) {
	sess, err := s.sessions.GetByToken(token)
	if err != nil {
		if appErr, ok := errors.IsAppError(err); ok && appErr.Type == errors.ErrorTypeNotFound {
			return nil, errors.ErrInvalidSession
		}
		s.logger.Error("session lookup failed", "error", err)
		return nil, errors.NewInternalError("session lookup failed", err)
	}

	if time.Now().After(sess.ExpiresAt) {
		// lazy cleanup; the periodic sweep catches anything missed here
		if delErr := s.sessions.Delete(sess.Token); delErr != nil {
			s.logger.Warn("failed to delete expired session", "error", delErr)
		}
		return nil, errors.ErrInvalidSession
	}

	u, err := s.users.GetByID(sess.UserID)
	if err != nil {
		if appErr, ok := errors.IsAppError(err); ok && appErr.Type == errors.ErrorTypeNotFound {
			return nil, errors.ErrInvalidSession
		}
		s.logger.Error("user lookup failed during session validation", "error", err, "user_id", sess.UserID)
		return nil, errors.NewInternalError("user lookup failed", err)
	}

	if !u.IsActive {
		return nil, errors.ErrInvalidSession
	}

	return sessionUserFrom(u), nil
}

// Logout deletes the session row. Deleting a token that no longer exists is
// not an error.
func (s *Service) Logout(token string) error {
	if err := s.sessions.Delete(token); err != nil {
		if appErr, ok := errors.IsAppError(err); ok && appErr.Type == errors.ErrorTypeNotFound {
			return nil
		}
		s.logger.Error("failed to delete session", "error", err)
		return errors.NewInternalError("failed to delete session", err)
	}
	return nil
}

// SweepExpiredSessions removes expired rows; called on a timer from cmd.
func (s *Service) SweepExpiredSessions() {
	if err := s.sessions.DeleteExpired(); err != nil {
		s.logger.Warn("expired session sweep failed", "error", err)
	}
}
