package postgres

import (
	errors "github.com/frahmantamala/asset-management/internal"
	employeeDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/asset-management/internal/employee"
	"gorm.io/gorm"
)

// EmployeeRepository implements the employee.Repository interface using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(e *employee.Employee) error {
	dm := employee.ToDataModel(e)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	e.ID = dm.ID
	e.CreatedAt = dm.CreatedAt
	return nil
}

func (r *EmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	var dm employeeDatamodel.Employee
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&dm), nil
}

func (r *EmployeeRepository) GetAll() ([]*employee.Employee, error) {
	var dms []employeeDatamodel.Employee
	if err := r.db.Order("name ASC").Find(&dms).Error; err != nil {
		return nil, err
	}

	employees := make([]*employee.Employee, len(dms))
	for i := range dms {
		employees[i] = employee.FromDataModel(&dms[i])
	}
	return employees, nil
}

func (r *EmployeeRepository) Update(e *employee.Employee) error {
	return r.db.Save(employee.ToDataModel(e)).Error
}

func (r *EmployeeRepository) Delete(id int64) error {
	res := r.db.Where("id = ?", id).Delete(&employeeDatamodel.Employee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) EmailExists(email string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.Model(&employeeDatamodel.Employee{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
