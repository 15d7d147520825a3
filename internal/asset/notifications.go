package asset

import (
	"fmt"
	"time"
)

const (
	WarrantyWindowDays = 30
	WarrantyUrgentDays = 7
	UnassignedStaleAge = 24 * time.Hour
)

// Thresholds tune the derived-notification windows. Zero values fall back to
// the defaults, so a partially filled config still behaves.
type Thresholds struct {
	WarrantyWindowDays int
	WarrantyUrgentDays int
	UnassignedStaleAge time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		WarrantyWindowDays: WarrantyWindowDays,
		WarrantyUrgentDays: WarrantyUrgentDays,
		UnassignedStaleAge: UnassignedStaleAge,
	}
}

func (th Thresholds) orDefaults() Thresholds {
	if th.WarrantyWindowDays <= 0 {
		th.WarrantyWindowDays = WarrantyWindowDays
	}
	if th.WarrantyUrgentDays <= 0 {
		th.WarrantyUrgentDays = WarrantyUrgentDays
	}
	if th.UnassignedStaleAge <= 0 {
		th.UnassignedStaleAge = UnassignedStaleAge
	}
	return th
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

const (
	NotificationWarrantyExpiring = "warranty_expiring"
	NotificationInMaintenance    = "in_maintenance"
	NotificationUnassignedStale  = "unassigned_stale"
)

// Notification is derived state: recomputed from the full asset snapshot on
// every request, never stored. The ID is deterministic so a client-held
// dismissed set survives recomputation and reloads.
type Notification struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	PcID     int64    `json:"pc_id"`
	AssetTag string   `json:"asset_tag"`
	Message  string   `json:"message"`
	Priority Priority `json:"priority"`
}

// DeriveNotifications computes the notification list for a snapshot of pcs
// at the given instant. Pure: same inputs, same output, input untouched.
func DeriveNotifications(pcs []*PcWithEmployee, now time.Time, th Thresholds) []Notification {
	th = th.orDefaults()
	notifications := make([]Notification, 0)

	for _, p := range pcs {
		if n, ok := warrantyNotification(p, now, th); ok {
			notifications = append(notifications, n)
		}

		if p.Status == StatusMaintenance {
			notifications = append(notifications, Notification{
				ID:       fmt.Sprintf("maintenance-%d", p.ID),
				Kind:     NotificationInMaintenance,
				PcID:     p.ID,
				AssetTag: p.AssetTag,
				Message:  fmt.Sprintf("%s is in maintenance", p.AssetTag),
				Priority: PriorityMedium,
			})
		}

		if !p.IsAssigned() && now.Sub(p.CreatedAt) > th.UnassignedStaleAge {
			notifications = append(notifications, Notification{
				ID:       fmt.Sprintf("unassigned-%d", p.ID),
				Kind:     NotificationUnassignedStale,
				PcID:     p.ID,
				AssetTag: p.AssetTag,
				Message:  fmt.Sprintf("%s has been unassigned since %s", p.AssetTag, p.CreatedAt.Format("2006-01-02")),
				Priority: PriorityLow,
			})
		}
	}

	return notifications
}

func warrantyNotification(p *PcWithEmployee, now time.Time, th Thresholds) (Notification, bool) {
	if p.WarrantyExpiry == nil || p.WarrantyExpiry.Before(now) {
		return Notification{}, false
	}

	days := daysUntil(*p.WarrantyExpiry, now)
	if days > th.WarrantyWindowDays {
		return Notification{}, false
	}

	priority := PriorityMedium
	if days <= th.WarrantyUrgentDays {
		priority = PriorityHigh
	}

	expiryDate := p.WarrantyExpiry.Format("2006-01-02")
	return Notification{
		// the expiry date is part of the id so an extended warranty surfaces
		// as a fresh notification even if the old one was dismissed
		ID:       fmt.Sprintf("warranty-%d-%s", p.ID, expiryDate),
		Kind:     NotificationWarrantyExpiring,
		PcID:     p.ID,
		AssetTag: p.AssetTag,
		Message:  fmt.Sprintf("warranty for %s expires on %s", p.AssetTag, expiryDate),
		Priority: priority,
	}, true
}
