package pc

import "time"

type Pc struct {
	ID             int64      `gorm:"primaryKey"`
	AssetTag       string     `gorm:"column:asset_tag;uniqueIndex;not null"`
	EmployeeID     *int64     `gorm:"column:employee_id;index"`
	Brand          string     `gorm:"column:brand"`
	Model          string     `gorm:"column:model"`
	CPU            string     `gorm:"column:cpu"`
	RAM            int        `gorm:"column:ram"`
	Storage        string     `gorm:"column:storage"`
	OS             string     `gorm:"column:os"`
	SerialNumber   string     `gorm:"column:serial_number;uniqueIndex;not null"`
	PurchaseDate   *time.Time `gorm:"column:purchase_date;type:date"`
	WarrantyExpiry *time.Time `gorm:"column:warranty_expiry;type:date"`
	Status         string     `gorm:"column:status;default:active"`
	Notes          string     `gorm:"column:notes"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Pc) TableName() string {
	return "pcs"
}

// PcHistory is append-only: rows are inserted by the history recorder and
// never updated or deleted.
type PcHistory struct {
	ID           int64     `gorm:"primaryKey"`
	PcID         int64     `gorm:"column:pc_id;index;not null"`
	SerialNumber string    `gorm:"column:serial_number;index;not null"`
	EventType    string    `gorm:"column:event_type;not null"`
	Description  string    `gorm:"column:description;not null"`
	OldValue     *string   `gorm:"column:old_value"`
	NewValue     *string   `gorm:"column:new_value"`
	EmployeeName *string   `gorm:"column:employee_name"`
	ActorName    *string   `gorm:"column:actor_name"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PcHistory) TableName() string {
	return "pc_history"
}
