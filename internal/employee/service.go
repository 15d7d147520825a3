package employee

import (
	"log/slog"

	errors "github.com/frahmantamala/asset-management/internal"
)

type Repository interface {
	Create(e *Employee) error
	GetByID(id int64) (*Employee, error)
	GetAll() ([]*Employee, error)
	Update(e *Employee) error
	Delete(id int64) error
	EmailExists(email string, excludeID int64) (bool, error)
}

// AssetUnassigner detaches pcs from an employee before deletion; implemented
// by the asset repository. Keeps the FK nullable invariant without a cascade.
type AssetUnassigner interface {
	UnassignAllForEmployee(employeeID int64) error
}

type Service struct {
	repo       Repository
	unassigner AssetUnassigner
	logger     *slog.Logger
}

func NewService(repo Repository, unassigner AssetUnassigner, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		unassigner: unassigner,
		logger:     logger,
	}
}

func (s *Service) CreateEmployee(dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if taken, err := s.repo.EmailExists(dto.Email, 0); err != nil {
		return nil, errors.NewInternalError("failed to check email", err)
	} else if taken {
		return nil, errors.NewConflictError("email already registered", errors.ErrCodeDuplicateEmail)
	}

	e := &Employee{
		Name:       dto.Name,
		Email:      dto.Email,
		Department: dto.Department,
		Position:   dto.Position,
	}

	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to create employee", "error", err, "email", dto.Email)
		return nil, errors.NewInternalError("failed to create employee", err)
	}

	return e, nil
}

func (s *Service) GetEmployee(id int64) (*Employee, error) {
	return s.repo.GetByID(id)
}

func (s *Service) GetAllEmployees() ([]*Employee, error) {
	employees, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, errors.NewInternalError("failed to list employees", err)
	}
	return employees, nil
}

func (s *Service) UpdateEmployee(id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Email != nil && *dto.Email != e.Email {
		if taken, err := s.repo.EmailExists(*dto.Email, id); err != nil {
			return nil, errors.NewInternalError("failed to check email", err)
		} else if taken {
			return nil, errors.NewConflictError("email already registered", errors.ErrCodeDuplicateEmail)
		}
		e.Email = *dto.Email
	}
	if dto.Name != nil {
		e.Name = *dto.Name
	}
	if dto.Department != nil {
		e.Department = *dto.Department
	}
	if dto.Position != nil {
		e.Position = *dto.Position
	}

	if err := s.repo.Update(e); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, errors.NewInternalError("failed to update employee", err)
	}

	return e, nil
}

// DeleteEmployee unassigns every pc held by the employee first, then removes
// the row. Assigned pcs become unassigned, not deleted.
func (s *Service) DeleteEmployee(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	if err := s.unassigner.UnassignAllForEmployee(id); err != nil {
		s.logger.Error("failed to unassign pcs for employee", "error", err, "employee_id", id)
		return errors.NewInternalError("failed to unassign pcs", err)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return errors.NewInternalError("failed to delete employee", err)
	}

	return nil
}
