package asset

import (
	"time"

	pcDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/pc"
)

const (
	StatusActive      = "active"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
)

func ValidStatuses() []string {
	return []string{StatusActive, StatusMaintenance, StatusRetired}
}

type Pc struct {
	ID             int64      `json:"id"`
	AssetTag       string     `json:"asset_tag"`
	EmployeeID     *int64     `json:"employee_id,omitempty"`
	Brand          string     `json:"brand"`
	Model          string     `json:"model"`
	CPU            string     `json:"cpu"`
	RAM            int        `json:"ram"`
	Storage        string     `json:"storage"`
	OS             string     `json:"os"`
	SerialNumber   string     `json:"serial_number"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	WarrantyExpiry *time.Time `json:"warranty_expiry,omitempty"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// EmployeeRef is the projected subset of an assigned employee carried by the
// PcWithEmployee read model.
type EmployeeRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PcWithEmployee is a read model, never persisted as such.
type PcWithEmployee struct {
	Pc
	Employee *EmployeeRef `json:"employee,omitempty"`
}

func (p *Pc) IsAssigned() bool {
	return p.EmployeeID != nil
}

func ToDataModel(p *Pc) *pcDatamodel.Pc {
	return &pcDatamodel.Pc{
		ID:             p.ID,
		AssetTag:       p.AssetTag,
		EmployeeID:     p.EmployeeID,
		Brand:          p.Brand,
		Model:          p.Model,
		CPU:            p.CPU,
		RAM:            p.RAM,
		Storage:        p.Storage,
		OS:             p.OS,
		SerialNumber:   p.SerialNumber,
		PurchaseDate:   p.PurchaseDate,
		WarrantyExpiry: p.WarrantyExpiry,
		Status:         p.Status,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func FromDataModel(p *pcDatamodel.Pc) *Pc {
	return &Pc{
		ID:             p.ID,
		AssetTag:       p.AssetTag,
		EmployeeID:     p.EmployeeID,
		Brand:          p.Brand,
		Model:          p.Model,
		CPU:            p.CPU,
		RAM:            p.RAM,
		Storage:        p.Storage,
		OS:             p.OS,
		SerialNumber:   p.SerialNumber,
		PurchaseDate:   p.PurchaseDate,
		WarrantyExpiry: p.WarrantyExpiry,
		Status:         p.Status,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
