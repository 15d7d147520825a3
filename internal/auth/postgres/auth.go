package postgres

import (
	"time"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/auth"
	sessionDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/session"
	userDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/user"
	"github.com/frahmantamala/asset-management/internal/user"
	"gorm.io/gorm"
)

// SessionRepository implements auth.SessionStore using GORM.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) auth.SessionStore {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(sess *sessionDatamodel.Session) error {
	return r.db.Create(sess).Error
}

func (r *SessionRepository) GetByToken(token string) (*sessionDatamodel.Session, error) {
	var sess sessionDatamodel.Session
	err := r.db.Where("token = ?", token).First(&sess).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("session not found", errors.ErrCodeInvalidSession)
		}
		return nil, err
	}
	return &sess, nil
}

func (r *SessionRepository) Delete(token string) error {
	res := r.db.Where("token = ?", token).Delete(&sessionDatamodel.Session{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.NewNotFoundError("session not found", errors.ErrCodeInvalidSession)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired() error {
	return r.db.Where("expires_at < ?", time.Now()).Delete(&sessionDatamodel.Session{}).Error
}

// AuthUserRepository implements auth.UserStore using GORM.
type AuthUserRepository struct {
	db *gorm.DB
}

func NewAuthUserRepository(db *gorm.DB) auth.UserStore {
	return &AuthUserRepository{db: db}
}

// GetByLogin matches the login value against username first, then email.
func (r *AuthUserRepository) GetByLogin(login string) (*user.User, error) {
	var dm userDatamodel.User
	err := r.db.Where("username = ? OR email = ?", login, login).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}

func (r *AuthUserRepository) GetByID(id int64) (*user.User, error) {
	var dm userDatamodel.User
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}

func (r *AuthUserRepository) UpdateLastLogin(id int64, at time.Time) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login_at": at,
			"updated_at":    time.Now(),
		}).Error
}
