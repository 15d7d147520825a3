package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePcCreated      = "pc.created"
	EventTypePcAssigned     = "pc.assigned"
	EventTypePcUnassigned   = "pc.unassigned"
	EventTypePcMaintenance  = "pc.maintenance"
	EventTypePcStatusChange = "pc.status_change"
	EventTypePcSpecsUpdate  = "pc.specs_update"
	EventTypePcNotesUpdate  = "pc.notes_update"
)

// PcEvent is the single event shape for every asset mutation. EventKind maps
// one-to-one onto the pc_history event_type column.
type PcEvent struct {
	BaseEvent
	PcID         int64   `json:"pc_id"`
	SerialNumber string  `json:"serial_number"`
	Description  string  `json:"description"`
	OldValue     *string `json:"old_value,omitempty"`
	NewValue     *string `json:"new_value,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	ActorName    *string `json:"actor_name,omitempty"`
}

func NewPcEvent(eventType string, pcID int64, serialNumber, description string) *PcEvent {
	return &PcEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"pc_id":         pcID,
				"serial_number": serialNumber,
				"description":   description,
			},
		},
		PcID:         pcID,
		SerialNumber: serialNumber,
		Description:  description,
	}
}

func (e *PcEvent) WithChange(oldValue, newValue string) *PcEvent {
	e.OldValue = &oldValue
	e.NewValue = &newValue
	return e
}

func (e *PcEvent) WithEmployee(name string) *PcEvent {
	e.EmployeeName = &name
	return e
}

func (e *PcEvent) WithActor(name string) *PcEvent {
	if name != "" {
		e.ActorName = &name
	}
	return e
}
