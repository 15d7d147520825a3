package asset

import (
	"strings"
	"time"
)

// Filter returns the subset of pcs satisfying every active criterion in f.
// It is a pure function over the snapshot: no side effects, input order
// preserved, input slice untouched. Cheap enough to re-run on every request.
func Filter(pcs []*PcWithEmployee, f FilterState, now time.Time, th Thresholds) []*PcWithEmployee {
	th = th.orDefaults()
	result := make([]*PcWithEmployee, 0, len(pcs))
	for _, p := range pcs {
		if matches(p, f, now, th) {
			result = append(result, p)
		}
	}
	return result
}

func matches(p *PcWithEmployee, f FilterState, now time.Time, th Thresholds) bool {
	if f.Search != "" && !matchesSearch(p, f.Search) {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
		return false
	}
	if f.RAMMin > 0 && p.RAM < f.RAMMin {
		return false
	}
	if f.RAMMax > 0 && p.RAM > f.RAMMax {
		return false
	}
	switch f.Assignment {
	case AssignmentAssigned:
		if !p.IsAssigned() {
			return false
		}
	case AssignmentUnassigned:
		if p.IsAssigned() {
			return false
		}
	}
	if f.PurchasedFrom != nil {
		if p.PurchaseDate == nil || p.PurchaseDate.Before(*f.PurchasedFrom) {
			return false
		}
	}
	if f.PurchasedTo != nil {
		if p.PurchaseDate == nil || p.PurchaseDate.After(*f.PurchasedTo) {
			return false
		}
	}
	if f.WarrantyExpiringSoon && !warrantyExpiringSoon(p.WarrantyExpiry, now, th.WarrantyWindowDays) {
		return false
	}
	return true
}

// matchesSearch checks the free-text term against asset tag, brand, model,
// serial number and assigned-employee name; any single hit satisfies it.
func matchesSearch(p *PcWithEmployee, term string) bool {
	needle := strings.ToLower(term)

	haystacks := []string{p.AssetTag, p.Brand, p.Model, p.SerialNumber}
	if p.Employee != nil {
		haystacks = append(haystacks, p.Employee.Name)
	}

	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func warrantyExpiringSoon(expiry *time.Time, now time.Time, windowDays int) bool {
	if expiry == nil || expiry.Before(now) {
		return false
	}
	return daysUntil(*expiry, now) <= windowDays
}

func daysUntil(t, now time.Time) int {
	return int(t.Sub(now).Hours() / 24)
}
