package postgres

import (
	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/asset"
	employeeDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/employee"
	pcDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/pc"
	"gorm.io/gorm"
)

// PcRepository implements the asset.Repository interface using GORM
type PcRepository struct {
	db *gorm.DB
}

func NewPcRepository(db *gorm.DB) asset.Repository {
	return &PcRepository{db: db}
}

func (r *PcRepository) Create(p *asset.Pc) error {
	dm := asset.ToDataModel(p)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	p.ID = dm.ID
	p.CreatedAt = dm.CreatedAt
	p.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *PcRepository) GetByID(id int64) (*asset.PcWithEmployee, error) {
	var dm pcDatamodel.Pc
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPcNotFound
		}
		return nil, err
	}
	return r.withEmployee(&dm)
}

func (r *PcRepository) GetAll() ([]*asset.PcWithEmployee, error) {
	var dms []pcDatamodel.Pc
	if err := r.db.Order("asset_tag ASC").Find(&dms).Error; err != nil {
		return nil, err
	}

	employees, err := r.employeesByID()
	if err != nil {
		return nil, err
	}

	pcs := make([]*asset.PcWithEmployee, len(dms))
	for i := range dms {
		p := &asset.PcWithEmployee{Pc: *asset.FromDataModel(&dms[i])}
		if p.EmployeeID != nil {
			p.Employee = employees[*p.EmployeeID]
		}
		pcs[i] = p
	}
	return pcs, nil
}

func (r *PcRepository) Update(p *asset.Pc) error {
	return r.db.Save(asset.ToDataModel(p)).Error
}

func (r *PcRepository) Delete(id int64) error {
	res := r.db.Where("id = ?", id).Delete(&pcDatamodel.Pc{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrPcNotFound
	}
	return nil
}

func (r *PcRepository) AssetTagExists(tag string, excludeID int64) (bool, error) {
	return r.columnExists("asset_tag", tag, excludeID)
}

func (r *PcRepository) SerialNumberExists(serial string, excludeID int64) (bool, error) {
	return r.columnExists("serial_number", serial, excludeID)
}

func (r *PcRepository) columnExists(column, value string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.Model(&pcDatamodel.Pc{}).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UnassignAllForEmployee clears every assignment pointing at the employee.
// Called before an employee record is deleted.
func (r *PcRepository) UnassignAllForEmployee(employeeID int64) error {
	return r.db.Model(&pcDatamodel.Pc{}).
		Where("employee_id = ?", employeeID).
		Update("employee_id", nil).Error
}

func (r *PcRepository) withEmployee(dm *pcDatamodel.Pc) (*asset.PcWithEmployee, error) {
	p := &asset.PcWithEmployee{Pc: *asset.FromDataModel(dm)}
	if dm.EmployeeID == nil {
		return p, nil
	}

	var emp employeeDatamodel.Employee
	err := r.db.Where("id = ?", *dm.EmployeeID).First(&emp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// dangling reference: surface the pc without the projection
			return p, nil
		}
		return nil, err
	}

	p.Employee = &asset.EmployeeRef{ID: emp.ID, Name: emp.Name, Email: emp.Email}
	return p, nil
}

func (r *PcRepository) employeesByID() (map[int64]*asset.EmployeeRef, error) {
	var dms []employeeDatamodel.Employee
	if err := r.db.Find(&dms).Error; err != nil {
		return nil, err
	}

	refs := make(map[int64]*asset.EmployeeRef, len(dms))
	for i := range dms {
		refs[dms[i].ID] = &asset.EmployeeRef{ID: dms[i].ID, Name: dms[i].Name, Email: dms[i].Email}
	}
	return refs, nil
}
