package asset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pcDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/pc"
	"github.com/frahmantamala/asset-management/internal/core/events"
)

// History event types, matching the pc_history.event_type column.
const (
	HistoryCreated      = "created"
	HistoryAssigned     = "assigned"
	HistoryUnassigned   = "unassigned"
	HistoryMaintenance  = "maintenance"
	HistoryStatusChange = "status_change"
	HistorySpecsUpdate  = "specs_update"
	HistoryNotesUpdate  = "notes_update"
)

type History struct {
	ID           int64     `json:"id"`
	PcID         int64     `json:"pc_id"`
	SerialNumber string    `json:"serial_number"`
	EventType    string    `json:"event_type"`
	Description  string    `json:"description"`
	OldValue     *string   `json:"old_value,omitempty"`
	NewValue     *string   `json:"new_value,omitempty"`
	EmployeeName *string   `json:"employee_name,omitempty"`
	ActorName    *string   `json:"actor_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type HistoryRepository interface {
	Append(h *pcDatamodel.PcHistory) error
	GetByPcID(pcID int64) ([]*History, error)
	GetBySerialPrefix(prefix string) ([]*History, error)
}

var historyTypeByEvent = map[string]string{
	events.EventTypePcCreated:      HistoryCreated,
	events.EventTypePcAssigned:     HistoryAssigned,
	events.EventTypePcUnassigned:   HistoryUnassigned,
	events.EventTypePcMaintenance:  HistoryMaintenance,
	events.EventTypePcStatusChange: HistoryStatusChange,
	events.EventTypePcSpecsUpdate:  HistorySpecsUpdate,
	events.EventTypePcNotesUpdate:  HistoryNotesUpdate,
}

// HistoryRecorder subscribes to pc events and appends one audit row per
// event. Rows are append-only: nothing here updates or deletes.
type HistoryRecorder struct {
	repo   HistoryRepository
	logger *slog.Logger
}

func NewHistoryRecorder(repo HistoryRepository, logger *slog.Logger) *HistoryRecorder {
	return &HistoryRecorder{repo: repo, logger: logger}
}

func (r *HistoryRecorder) Register(bus *events.EventBus) {
	for eventType := range historyTypeByEvent {
		bus.Subscribe(eventType, r.handle)
	}
}

func (r *HistoryRecorder) handle(ctx context.Context, event events.Event) error {
	pcEvent, ok := event.(*events.PcEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	historyType, ok := historyTypeByEvent[event.EventType()]
	if !ok {
		return fmt.Errorf("no history mapping for event type %s", event.EventType())
	}

	row := &pcDatamodel.PcHistory{
		PcID:         pcEvent.PcID,
		SerialNumber: pcEvent.SerialNumber,
		EventType:    historyType,
		Description:  pcEvent.Description,
		OldValue:     pcEvent.OldValue,
		NewValue:     pcEvent.NewValue,
		EmployeeName: pcEvent.EmployeeName,
		ActorName:    pcEvent.ActorName,
		CreatedAt:    event.OccurredAt(),
	}

	if err := r.repo.Append(row); err != nil {
		r.logger.Error("failed to append history row",
			"pc_id", pcEvent.PcID,
			"event_type", historyType,
			"error", err)
		return err
	}

	return nil
}

func FromHistoryDataModel(h *pcDatamodel.PcHistory) *History {
	return &History{
		ID:           h.ID,
		PcID:         h.PcID,
		SerialNumber: h.SerialNumber,
		EventType:    h.EventType,
		Description:  h.Description,
		OldValue:     h.OldValue,
		NewValue:     h.NewValue,
		EmployeeName: h.EmployeeName,
		ActorName:    h.ActorName,
		CreatedAt:    h.CreatedAt,
	}
}
