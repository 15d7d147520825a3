package asset

import (
	"net/http"
	"strconv"
	"time"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/core/common/validation"
)

type CreatePcDTO struct {
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
	Notes          string     `json:"notes"`
}

type UpdatePcDTO struct {
	Brand          *string    `json:"brand,omitempty"`
	Model          *string    `json:"model,omitempty"`
	CPU            *string    `json:"cpu,omitempty"`
	RAM            *int       `json:"ram,omitempty"`
	Storage        *string    `json:"storage,omitempty"`
	OS             *string    `json:"os,omitempty"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	WarrantyExpiry *time.Time `json:"warranty_expiry,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}

type AssignPcDTO struct {
	EmployeeID int64 `json:"employee_id"`
}

type SetStatusDTO struct {
	Status string `json:"status"`
}

func (d CreatePcDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("asset_tag", d.AssetTag).Required().MaxLength(50)
	v.Field("serial_number", d.SerialNumber).Required().MaxLength(100)
	v.Field("ram", int64(d.RAM)).MinInt(0).MaxInt(4096)
	v.Field("status", d.Status).OneOf(ValidStatuses()...)
	if d.PurchaseDate != nil {
		v.Field("purchase_date", *d.PurchaseDate).NotFuture()
	}
	return v.Validate()
}

func (d UpdatePcDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.RAM != nil {
		v.Field("ram", int64(*d.RAM)).MinInt(0).MaxInt(4096)
	}
	if d.PurchaseDate != nil {
		v.Field("purchase_date", *d.PurchaseDate).NotFuture()
	}
	if d.Notes != nil {
		v.Field("notes", *d.Notes).MaxLength(2000)
	}
	return v.Validate()
}

func (d AssignPcDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required()
	return v.Validate()
}

func (d SetStatusDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("status", d.Status).Required().OneOf(ValidStatuses()...)
	return v.Validate()
}

// Assignment filter values.
const (
	AssignmentAny        = ""
	AssignmentAssigned   = "assigned"
	AssignmentUnassigned = "unassigned"
)

// FilterState holds every inventory filter criterion. Zero values mean "not
// filtered on"; active criteria combine by conjunction.
type FilterState struct {
	Search               string
	Status               string
	Brand                string
	RAMMin               int
	RAMMax               int
	Assignment           string
	PurchasedFrom        *time.Time
	PurchasedTo          *time.Time
	WarrantyExpiringSoon bool
}

// FilterStateFromQuery parses list filters from request query parameters.
// Unparseable numeric or date values are ignored rather than rejected, so a
// half-typed filter never breaks the listing.
func FilterStateFromQuery(r *http.Request) FilterState {
	q := r.URL.Query()

	f := FilterState{
		Search:               q.Get("search"),
		Status:               q.Get("status"),
		Brand:                q.Get("brand"),
		Assignment:           q.Get("assignment"),
		WarrantyExpiringSoon: q.Get("warranty_expiring") == "true",
	}

	if v := q.Get("ram_min"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.RAMMin = n
		}
	}
	if v := q.Get("ram_max"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.RAMMax = n
		}
	}
	if v := q.Get("purchased_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.PurchasedFrom = &t
		}
	}
	if v := q.Get("purchased_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.PurchasedTo = &t
		}
	}

	return f
}
