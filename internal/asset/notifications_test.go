package asset_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/asset-management/internal/asset"
)

var _ = Describe("DeriveNotifications", func() {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	th := asset.DefaultThresholds()

	withWarranty := func(days int) func(*asset.PcWithEmployee) {
		return func(p *asset.PcWithEmployee) {
			expiry := now.AddDate(0, 0, days)
			p.WarrantyExpiry = &expiry
		}
	}

	kindsOf := func(notifications []asset.Notification) []string {
		kinds := make([]string, len(notifications))
		for i, n := range notifications {
			kinds[i] = n.Kind
		}
		return kinds
	}

	// give every pc a recent creation time so only the case under test fires
	recent := func(p *asset.PcWithEmployee) {
		p.CreatedAt = now.Add(-time.Hour)
	}

	Describe("warranty expiring", func() {
		It("is high priority at 7 days and medium at 8", func() {
			urgent := asset.DeriveNotifications([]*asset.PcWithEmployee{pc(1, "PC-001", recent, withWarranty(7))}, now, th)
			Expect(urgent).To(HaveLen(1))
			Expect(urgent[0].Priority).To(Equal(asset.PriorityHigh))

			medium := asset.DeriveNotifications([]*asset.PcWithEmployee{pc(1, "PC-001", recent, withWarranty(8))}, now, th)
			Expect(medium).To(HaveLen(1))
			Expect(medium[0].Priority).To(Equal(asset.PriorityMedium))
		})

		It("fires at 30 days out but not at 31", func() {
			within := asset.DeriveNotifications([]*asset.PcWithEmployee{pc(1, "PC-001", recent, withWarranty(30))}, now, th)
			Expect(kindsOf(within)).To(ContainElement(asset.NotificationWarrantyExpiring))

			outside := asset.DeriveNotifications([]*asset.PcWithEmployee{pc(1, "PC-001", recent, withWarranty(31))}, now, th)
			Expect(kindsOf(outside)).NotTo(ContainElement(asset.NotificationWarrantyExpiring))
		})

		It("stays silent for already expired warranties", func() {
			got := asset.DeriveNotifications([]*asset.PcWithEmployee{pc(1, "PC-001", recent, withWarranty(-3))}, now, th)
			Expect(kindsOf(got)).NotTo(ContainElement(asset.NotificationWarrantyExpiring))
		})

		It("bakes the expiry date into the ID so an extension resurfaces", func() {
			before := asset.DeriveNotifications([]*asset.PcWithEmployee{pc(1, "PC-001", recent, withWarranty(10))}, now, th)
			after := asset.DeriveNotifications([]*asset.PcWithEmployee{pc(1, "PC-001", recent, withWarranty(25))}, now, th)

			Expect(before[0].ID).NotTo(Equal(after[0].ID))
		})
	})

	Describe("maintenance", func() {
		It("emits a medium notification for pcs in maintenance", func() {
			p := pc(2, "PC-002", recent, func(p *asset.PcWithEmployee) { p.Status = asset.StatusMaintenance })

			got := asset.DeriveNotifications([]*asset.PcWithEmployee{p}, now, th)
			Expect(got).To(HaveLen(1))
			Expect(got[0].Kind).To(Equal(asset.NotificationInMaintenance))
			Expect(got[0].Priority).To(Equal(asset.PriorityMedium))
			Expect(got[0].ID).To(Equal("maintenance-2"))
		})
	})

	Describe("unassigned stale", func() {
		It("fires for pcs unassigned longer than 24 hours", func() {
			p := pc(3, "PC-003", func(p *asset.PcWithEmployee) {
				p.CreatedAt = now.Add(-25 * time.Hour)
			})

			got := asset.DeriveNotifications([]*asset.PcWithEmployee{p}, now, th)
			Expect(got).To(HaveLen(1))
			Expect(got[0].Kind).To(Equal(asset.NotificationUnassignedStale))
			Expect(got[0].Priority).To(Equal(asset.PriorityLow))
		})

		It("stays silent inside the 24 hour grace period", func() {
			p := pc(3, "PC-003", func(p *asset.PcWithEmployee) {
				p.CreatedAt = now.Add(-23 * time.Hour)
			})

			Expect(asset.DeriveNotifications([]*asset.PcWithEmployee{p}, now, th)).To(BeEmpty())
		})

		It("stays silent for assigned pcs regardless of age", func() {
			p := pc(3, "PC-003", assignedTo(9, "Dana"), func(p *asset.PcWithEmployee) {
				p.CreatedAt = now.Add(-100 * time.Hour)
			})

			Expect(asset.DeriveNotifications([]*asset.PcWithEmployee{p}, now, th)).To(BeEmpty())
		})
	})

	Describe("configured thresholds", func() {
		It("honors a tightened warranty window and urgency cutoff", func() {
			tight := asset.Thresholds{WarrantyWindowDays: 10, WarrantyUrgentDays: 2}

			Expect(asset.DeriveNotifications([]*asset.PcWithEmployee{pc(1, "PC-001", recent, withWarranty(10))}, now, tight)).To(HaveLen(1))
			Expect(asset.DeriveNotifications([]*asset.PcWithEmployee{pc(1, "PC-001", recent, withWarranty(11))}, now, tight)).To(BeEmpty())

			urgent := asset.DeriveNotifications([]*asset.PcWithEmployee{pc(1, "PC-001", recent, withWarranty(2))}, now, tight)
			Expect(urgent[0].Priority).To(Equal(asset.PriorityHigh))

			calm := asset.DeriveNotifications([]*asset.PcWithEmployee{pc(1, "PC-001", recent, withWarranty(3))}, now, tight)
			Expect(calm[0].Priority).To(Equal(asset.PriorityMedium))
		})

		It("honors a shortened unassigned grace period", func() {
			tight := asset.Thresholds{UnassignedStaleAge: time.Hour}
			p := pc(3, "PC-003", func(p *asset.PcWithEmployee) {
				p.CreatedAt = now.Add(-2 * time.Hour)
			})

			got := asset.DeriveNotifications([]*asset.PcWithEmployee{p}, now, tight)
			Expect(got).To(HaveLen(1))
			Expect(got[0].Kind).To(Equal(asset.NotificationUnassignedStale))
		})

		It("falls back to the defaults for zero values", func() {
			got := asset.DeriveNotifications([]*asset.PcWithEmployee{pc(1, "PC-001", recent, withWarranty(30))}, now, asset.Thresholds{})
			Expect(got).To(HaveLen(1))
			Expect(got[0].Kind).To(Equal(asset.NotificationWarrantyExpiring))
		})
	})

	It("is deterministic: same snapshot, same instant, same IDs", func() {
		pcs := []*asset.PcWithEmployee{
			pc(1, "PC-001", recent, withWarranty(5)),
			pc(2, "PC-002", recent, func(p *asset.PcWithEmployee) { p.Status = asset.StatusMaintenance }),
		}

		first := asset.DeriveNotifications(pcs, now, th)
		second := asset.DeriveNotifications(pcs, now, th)
		Expect(second).To(Equal(first))
	})
})
