package user

import (
	"log/slog"

	errors "github.com/frahmantamala/asset-management/internal"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByUsername(username string) (*User, error)
	GetAll() ([]*User, error)
	Update(u *User) error
	Delete(id int64) error
	EmailExists(email string, excludeID int64) (bool, error)
	UsernameExists(username string) (bool, error)
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) CreateUser(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if taken, err := s.repo.UsernameExists(dto.Username); err != nil {
		return nil, errors.NewInternalError("failed to check username", err)
	} else if taken {
		return nil, errors.NewConflictError("username already taken", errors.ErrCodeDuplicateUsername)
	}

	if taken, err := s.repo.EmailExists(dto.Email, 0); err != nil {
		return nil, errors.NewInternalError("failed to check email", err)
	} else if taken {
		return nil, errors.NewConflictError("email already registered", errors.ErrCodeDuplicateEmail)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	role := dto.Role
	if role == "" {
		role = RoleUser
	}

	u := &User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: string(hash),
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Role:         role,
		IsActive:     true,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return nil, errors.NewInternalError("failed to create user", err)
	}

	return u.Sanitize(), nil
}

func (s *Service) GetUser(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return u.Sanitize(), nil
}

func (s *Service) GetAllUsers() ([]*User, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, errors.NewInternalError("failed to list users", err)
	}

	sanitized := make([]*User, len(users))
	for i, u := range users {
		sanitized[i] = u.Sanitize()
	}
	return sanitized, nil
}

func (s *Service) UpdateUser(id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Email != nil && *dto.Email != u.Email {
		if taken, err := s.repo.EmailExists(*dto.Email, id); err != nil {
			return nil, errors.NewInternalError("failed to check email", err)
		} else if taken {
			return nil, errors.NewConflictError("email already registered", errors.ErrCodeDuplicateEmail)
		}
		u.Email = *dto.Email
	}
	if dto.FirstName != nil {
		u.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		u.LastName = *dto.LastName
	}
	if dto.Role != nil {
		u.Role = *dto.Role
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, errors.NewInternalError("failed to update user", err)
	}

	return u.Sanitize(), nil
}

// DeleteUser removes the account; its sessions go with it via the FK cascade.
func (s *Service) DeleteUser(id int64) error {
	if err := s.repo.Delete(id); err != nil {
		if _, ok := errors.IsAppError(err); ok {
			return err
		}
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return errors.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}
