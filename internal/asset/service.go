package asset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/core/events"
	"github.com/frahmantamala/asset-management/internal/employee"
	"github.com/frahmantamala/asset-management/internal/export"
)

// Repository defines the data access methods for pcs.
type Repository interface {
	Create(p *Pc) error
	GetByID(id int64) (*PcWithEmployee, error)
	GetAll() ([]*PcWithEmployee, error)
	Update(p *Pc) error
	Delete(id int64) error
	AssetTagExists(tag string, excludeID int64) (bool, error)
	SerialNumberExists(serial string, excludeID int64) (bool, error)
	UnassignAllForEmployee(employeeID int64) error
}

// EmployeeDirectory resolves employee references during assignment.
type EmployeeDirectory interface {
	GetByID(id int64) (*employee.Employee, error)
}

type Service struct {
	repo       Repository
	history    HistoryRepository
	employees  EmployeeDirectory
	bus        *events.EventBus
	reportName string
	thresholds Thresholds
	logger     *slog.Logger
}

func NewService(repo Repository, history HistoryRepository, employees EmployeeDirectory, bus *events.EventBus, reportName string, thresholds Thresholds, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		history:    history,
		employees:  employees,
		bus:        bus,
		reportName: reportName,
		thresholds: thresholds.orDefaults(),
		logger:     logger,
	}
}

func (s *Service) CreatePc(ctx context.Context, dto CreatePcDTO, actor string) (*PcWithEmployee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if taken, err := s.repo.AssetTagExists(dto.AssetTag, 0); err != nil {
		return nil, errors.NewInternalError("failed to check asset tag", err)
	} else if taken {
		return nil, errors.NewConflictError("asset tag already in use", errors.ErrCodeDuplicateAsset)
	}

	if taken, err := s.repo.SerialNumberExists(dto.SerialNumber, 0); err != nil {
		return nil, errors.NewInternalError("failed to check serial number", err)
	} else if taken {
		return nil, errors.NewConflictError("serial number already registered", errors.ErrCodeDuplicateAsset)
	}

	var assignedName string
	if dto.EmployeeID != nil {
		emp, err := s.employees.GetByID(*dto.EmployeeID)
		if err != nil {
			return nil, errors.NewValidationFieldError("employee_id", "employee does not exist")
		}
		assignedName = emp.Name
	}

	status := dto.Status
	if status == "" {
		status = StatusActive
	}

	p := &Pc{
		AssetTag:       dto.AssetTag,
		EmployeeID:     dto.EmployeeID,
		Brand:          dto.Brand,
		Model:          dto.Model,
		CPU:            dto.CPU,
		RAM:            dto.RAM,
		Storage:        dto.Storage,
		OS:             dto.OS,
		SerialNumber:   dto.SerialNumber,
		PurchaseDate:   dto.PurchaseDate,
		WarrantyExpiry: dto.WarrantyExpiry,
		Status:         status,
		Notes:          dto.Notes,
	}

	if err := s.repo.Create(p); err != nil {
		s.logger.Error("failed to create pc", "error", err, "asset_tag", dto.AssetTag)
		return nil, errors.NewInternalError("failed to create pc", err)
	}

	event := events.NewPcEvent(events.EventTypePcCreated, p.ID, p.SerialNumber,
		fmt.Sprintf("pc %s registered", p.AssetTag)).WithActor(actor)
	if assignedName != "" {
		event = event.WithEmployee(assignedName)
	}
	s.publish(ctx, event)

	return s.repo.GetByID(p.ID)
}

func (s *Service) GetPc(id int64) (*PcWithEmployee, error) {
	return s.repo.GetByID(id)
}

// ListPcs fetches the full snapshot and applies the derived filter in memory.
// Filtering stays a pure function of (snapshot, filter state).
func (s *Service) ListPcs(f FilterState) ([]*PcWithEmployee, error) {
	pcs, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list pcs", "error", err)
		return nil, errors.NewInternalError("failed to list pcs", err)
	}
	return Filter(pcs, f, time.Now(), s.thresholds), nil
}

func (s *Service) UpdatePc(ctx context.Context, id int64, dto UpdatePcDTO, actor string) (*PcWithEmployee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	p := current.Pc

	specChanges := applySpecChanges(&p, dto)
	notesChanged := dto.Notes != nil && *dto.Notes != current.Notes
	if notesChanged {
		p.Notes = *dto.Notes
	}

	if len(specChanges) == 0 && !notesChanged {
		return current, nil
	}

	if err := s.repo.Update(&p); err != nil {
		s.logger.Error("failed to update pc", "error", err, "pc_id", id)
		return nil, errors.NewInternalError("failed to update pc", err)
	}

	if len(specChanges) > 0 {
		oldSummary := make([]string, 0, len(specChanges))
		newSummary := make([]string, 0, len(specChanges))
		for _, c := range specChanges {
			oldSummary = append(oldSummary, fmt.Sprintf("%s=%s", c.field, c.oldValue))
			newSummary = append(newSummary, fmt.Sprintf("%s=%s", c.field, c.newValue))
		}
		s.publish(ctx, events.NewPcEvent(events.EventTypePcSpecsUpdate, p.ID, p.SerialNumber,
			fmt.Sprintf("specs updated for %s", p.AssetTag)).
			WithChange(strings.Join(oldSummary, ", "), strings.Join(newSummary, ", ")).
			WithActor(actor))
	}

	if notesChanged {
		s.publish(ctx, events.NewPcEvent(events.EventTypePcNotesUpdate, p.ID, p.SerialNumber,
			fmt.Sprintf("notes updated for %s", p.AssetTag)).
			WithChange(current.Notes, p.Notes).
			WithActor(actor))
	}

	return s.repo.GetByID(id)
}

func (s *Service) DeletePc(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	// history rows are kept: the audit trail outlives the asset record
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete pc", "error", err, "pc_id", id)
		return errors.NewInternalError("failed to delete pc", err)
	}
	return nil
}

func (s *Service) AssignPc(ctx context.Context, id int64, dto AssignPcDTO, actor string) (*PcWithEmployee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	emp, err := s.employees.GetByID(dto.EmployeeID)
	if err != nil {
		return nil, errors.NewValidationFieldError("employee_id", "employee does not exist")
	}

	p := current.Pc
	p.EmployeeID = &dto.EmployeeID
	if err := s.repo.Update(&p); err != nil {
		s.logger.Error("failed to assign pc", "error", err, "pc_id", id, "employee_id", dto.EmployeeID)
		return nil, errors.NewInternalError("failed to assign pc", err)
	}

	s.publish(ctx, events.NewPcEvent(events.EventTypePcAssigned, p.ID, p.SerialNumber,
		fmt.Sprintf("%s assigned to %s", p.AssetTag, emp.Name)).
		WithEmployee(emp.Name).
		WithActor(actor))

	return s.repo.GetByID(id)
}

func (s *Service) UnassignPc(ctx context.Context, id int64, actor string) (*PcWithEmployee, error) {
	current, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !current.IsAssigned() {
		return current, nil
	}

	var previousName string
	if current.Employee != nil {
		previousName = current.Employee.Name
	}

	p := current.Pc
	p.EmployeeID = nil
	if err := s.repo.Update(&p); err != nil {
		s.logger.Error("failed to unassign pc", "error", err, "pc_id", id)
		return nil, errors.NewInternalError("failed to unassign pc", err)
	}

	event := events.NewPcEvent(events.EventTypePcUnassigned, p.ID, p.SerialNumber,
		fmt.Sprintf("%s unassigned", p.AssetTag)).WithActor(actor)
	if previousName != "" {
		event = event.WithEmployee(previousName)
	}
	s.publish(ctx, event)

	return s.repo.GetByID(id)
}

func (s *Service) SetStatus(ctx context.Context, id int64, dto SetStatusDTO, actor string) (*PcWithEmployee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if current.Status == dto.Status {
		return current, nil
	}

	p := current.Pc
	oldStatus := p.Status
	p.Status = dto.Status
	if err := s.repo.Update(&p); err != nil {
		s.logger.Error("failed to update pc status", "error", err, "pc_id", id)
		return nil, errors.NewInternalError("failed to update pc status", err)
	}

	eventType := events.EventTypePcStatusChange
	if dto.Status == StatusMaintenance {
		eventType = events.EventTypePcMaintenance
	}
	s.publish(ctx, events.NewPcEvent(eventType, p.ID, p.SerialNumber,
		fmt.Sprintf("status of %s changed from %s to %s", p.AssetTag, oldStatus, dto.Status)).
		WithChange(oldStatus, dto.Status).
		WithActor(actor))

	return s.repo.GetByID(id)
}

func (s *Service) HistoryForPc(id int64) ([]*History, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		return nil, err
	}
	return s.history.GetByPcID(id)
}

func (s *Service) HistoryBySerialPrefix(prefix string) ([]*History, error) {
	if prefix == "" {
		return nil, errors.NewValidationFieldError("serial_prefix", "serial_prefix is required")
	}
	return s.history.GetBySerialPrefix(prefix)
}

// Notifications derives the current notification list from the full snapshot.
func (s *Service) Notifications() ([]Notification, error) {
	pcs, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to load pcs for notifications", "error", err)
		return nil, errors.NewInternalError("failed to derive notifications", err)
	}
	return DeriveNotifications(pcs, time.Now(), s.thresholds), nil
}

// ExportCSV renders the filtered inventory as a CSV document.
func (s *Service) ExportCSV(f FilterState) (filename string, data string, err error) {
	pcs, listErr := s.ListPcs(f)
	if listErr != nil {
		return "", "", listErr
	}

	data, marshalErr := export.Marshal(ReportColumns, ReportRows(pcs))
	if marshalErr != nil {
		if marshalErr == export.ErrNoRows {
			return "", "", errors.NewValidationError("no rows to export", errors.ErrCodeValidationFailed)
		}
		return "", "", errors.NewInternalError("failed to build export", marshalErr)
	}

	return export.Filename(s.reportName, time.Now()), data, nil
}

func (s *Service) publish(ctx context.Context, event *events.PcEvent) {
	// audit recording is synchronous so the row exists before we respond;
	// a failed append is logged but does not fail the mutation itself
	if err := s.bus.PublishSync(ctx, event); err != nil {
		s.logger.Error("failed to record pc event", "event_type", event.EventType(), "error", err)
	}
}

type specChange struct {
	field    string
	oldValue string
	newValue string
}

func applySpecChanges(p *Pc, dto UpdatePcDTO) []specChange {
	var changes []specChange

	apply := func(field, oldVal, newVal string, set func()) {
		if oldVal != newVal {
			changes = append(changes, specChange{field: field, oldValue: oldVal, newValue: newVal})
			set()
		}
	}

	if dto.Brand != nil {
		apply("brand", p.Brand, *dto.Brand, func() { p.Brand = *dto.Brand })
	}
	if dto.Model != nil {
		apply("model", p.Model, *dto.Model, func() { p.Model = *dto.Model })
	}
	if dto.CPU != nil {
		apply("cpu", p.CPU, *dto.CPU, func() { p.CPU = *dto.CPU })
	}
	if dto.RAM != nil {
		apply("ram", fmt.Sprintf("%d", p.RAM), fmt.Sprintf("%d", *dto.RAM), func() { p.RAM = *dto.RAM })
	}
	if dto.Storage != nil {
		apply("storage", p.Storage, *dto.Storage, func() { p.Storage = *dto.Storage })
	}
	if dto.OS != nil {
		apply("os", p.OS, *dto.OS, func() { p.OS = *dto.OS })
	}
	if dto.PurchaseDate != nil {
		apply("purchase_date", formatDate(p.PurchaseDate), formatDate(dto.PurchaseDate), func() { p.PurchaseDate = dto.PurchaseDate })
	}
	if dto.WarrantyExpiry != nil {
		apply("warranty_expiry", formatDate(p.WarrantyExpiry), formatDate(dto.WarrantyExpiry), func() { p.WarrantyExpiry = dto.WarrantyExpiry })
	}

	return changes
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
