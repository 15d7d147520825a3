package asset_test

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/asset-management/internal/asset"
)

func pc(id int64, tag string, mutate ...func(*asset.PcWithEmployee)) *asset.PcWithEmployee {
	p := &asset.PcWithEmployee{
		Pc: asset.Pc{
			ID:           id,
			AssetTag:     tag,
			Brand:        "Lenovo",
			Model:        "ThinkPad T14",
			RAM:          16,
			SerialNumber: "SN-" + tag,
			Status:       asset.StatusActive,
		},
	}
	for _, m := range mutate {
		m(p)
	}
	return p
}

func assignedTo(id int64, name string) func(*asset.PcWithEmployee) {
	return func(p *asset.PcWithEmployee) {
		p.EmployeeID = &id
		p.Employee = &asset.EmployeeRef{ID: id, Name: name}
	}
}

var _ = Describe("Filter", func() {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	th := asset.DefaultThresholds()

	It("returns everything when no criterion is active", func() {
		pcs := []*asset.PcWithEmployee{pc(1, "PC-001"), pc(2, "PC-002")}
		Expect(asset.Filter(pcs, asset.FilterState{}, now, th)).To(HaveLen(2))
	})

	It("combines active criteria conjunctively", func() {
		pcs := []*asset.PcWithEmployee{
			pc(1, "PC-001", func(p *asset.PcWithEmployee) { p.RAM = 32 }),
			pc(2, "PC-002", func(p *asset.PcWithEmployee) { p.RAM = 32; p.Status = asset.StatusRetired }),
			pc(3, "PC-003"),
		}

		got := asset.Filter(pcs, asset.FilterState{Status: asset.StatusActive, RAMMin: 32}, now, th)
		Expect(got).To(HaveLen(1))
		Expect(got[0].ID).To(Equal(int64(1)))
	})

	It("matches free text across tag, brand, model, serial and employee name", func() {
		pcs := []*asset.PcWithEmployee{
			pc(1, "PC-001", assignedTo(9, "Dana Mulyana")),
			pc(2, "PC-002", func(p *asset.PcWithEmployee) { p.Model = "Latitude" }),
			pc(3, "PC-003"),
		}

		byEmployee := asset.Filter(pcs, asset.FilterState{Search: "dana"}, now, th)
		Expect(byEmployee).To(HaveLen(1))
		Expect(byEmployee[0].ID).To(Equal(int64(1)))

		byModel := asset.Filter(pcs, asset.FilterState{Search: "LATITUDE"}, now, th)
		Expect(byModel).To(HaveLen(1))
		Expect(byModel[0].ID).To(Equal(int64(2)))

		bySerial := asset.Filter(pcs, asset.FilterState{Search: "sn-pc-003"}, now, th)
		Expect(bySerial).To(HaveLen(1))
		Expect(bySerial[0].ID).To(Equal(int64(3)))
	})

	It("filters on assignment state", func() {
		pcs := []*asset.PcWithEmployee{
			pc(1, "PC-001", assignedTo(9, "Dana")),
			pc(2, "PC-002"),
		}

		assigned := asset.Filter(pcs, asset.FilterState{Assignment: asset.AssignmentAssigned}, now, th)
		Expect(assigned).To(HaveLen(1))
		Expect(assigned[0].ID).To(Equal(int64(1)))

		unassigned := asset.Filter(pcs, asset.FilterState{Assignment: asset.AssignmentUnassigned}, now, th)
		Expect(unassigned).To(HaveLen(1))
		Expect(unassigned[0].ID).To(Equal(int64(2)))
	})

	It("bounds purchase dates inclusively on both ends", func() {
		jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
		jun := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
		pcs := []*asset.PcWithEmployee{
			pc(1, "PC-001", func(p *asset.PcWithEmployee) { p.PurchaseDate = &jan }),
			pc(2, "PC-002", func(p *asset.PcWithEmployee) { p.PurchaseDate = &jun }),
			pc(3, "PC-003"),
		}

		from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		got := asset.Filter(pcs, asset.FilterState{PurchasedFrom: &from}, now, th)
		Expect(got).To(HaveLen(1))
		Expect(got[0].ID).To(Equal(int64(2)))
	})

	Describe("warranty expiring soon", func() {
		expiringIn := func(days int) func(*asset.PcWithEmployee) {
			return func(p *asset.PcWithEmployee) {
				expiry := now.AddDate(0, 0, days)
				p.WarrantyExpiry = &expiry
			}
		}

		It("includes day 30 and excludes day 31", func() {
			pcs := []*asset.PcWithEmployee{
				pc(1, "PC-001", expiringIn(30)),
				pc(2, "PC-002", expiringIn(31)),
			}

			got := asset.Filter(pcs, asset.FilterState{WarrantyExpiringSoon: true}, now, th)
			Expect(got).To(HaveLen(1))
			Expect(got[0].ID).To(Equal(int64(1)))
		})

		It("excludes already expired warranties and missing expiry dates", func() {
			pcs := []*asset.PcWithEmployee{
				pc(1, "PC-001", expiringIn(-1)),
				pc(2, "PC-002"),
			}

			Expect(asset.Filter(pcs, asset.FilterState{WarrantyExpiringSoon: true}, now, th)).To(BeEmpty())
		})

		It("honors a configured window", func() {
			tight := asset.Thresholds{WarrantyWindowDays: 10}
			pcs := []*asset.PcWithEmployee{
				pc(1, "PC-001", expiringIn(10)),
				pc(2, "PC-002", expiringIn(11)),
			}

			got := asset.Filter(pcs, asset.FilterState{WarrantyExpiringSoon: true}, now, tight)
			Expect(got).To(HaveLen(1))
			Expect(got[0].ID).To(Equal(int64(1)))
		})
	})

	It("preserves input order and leaves the input slice untouched", func() {
		pcs := []*asset.PcWithEmployee{pc(3, "PC-003"), pc(1, "PC-001"), pc(2, "PC-002")}

		got := asset.Filter(pcs, asset.FilterState{}, now, th)
		Expect(got[0].ID).To(Equal(int64(3)))
		Expect(got[1].ID).To(Equal(int64(1)))
		Expect(pcs).To(HaveLen(3))
	})

	Describe("subset property over random inputs", func() {
		var rng *rand.Rand

		BeforeEach(func() {
			rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
		})

		brands := []string{"Lenovo", "Dell", "HP", "Apple"}
		models := []string{"ThinkPad T14", "Latitude 5440", "EliteBook 840", "MacBook Air"}
		statuses := []string{asset.StatusActive, asset.StatusMaintenance, asset.StatusRetired}
		names := []string{"Dana Mulyana", "Rizky Pratama", "Sari Dewi"}
		searches := []string{"pc", "think", "dana", "zzz"}

		randomPc := func(id int64) *asset.PcWithEmployee {
			p := pc(id, fmt.Sprintf("PC-%03d", id), func(p *asset.PcWithEmployee) {
				p.Brand = brands[rng.Intn(len(brands))]
				p.Model = models[rng.Intn(len(models))]
				p.RAM = 4 << rng.Intn(5)
				p.Status = statuses[rng.Intn(len(statuses))]
				p.SerialNumber = fmt.Sprintf("SN-%04d", rng.Intn(10000))
			})
			if rng.Intn(2) == 0 {
				assignedTo(int64(rng.Intn(3)+1), names[rng.Intn(len(names))])(p)
			}
			if rng.Intn(2) == 0 {
				d := now.AddDate(0, 0, -rng.Intn(900))
				p.PurchaseDate = &d
			}
			if rng.Intn(2) == 0 {
				d := now.AddDate(0, 0, rng.Intn(120)-30)
				p.WarrantyExpiry = &d
			}
			return p
		}

		randomFilter := func() asset.FilterState {
			var f asset.FilterState
			if rng.Intn(3) == 0 {
				f.Search = searches[rng.Intn(len(searches))]
			}
			if rng.Intn(3) == 0 {
				f.Status = statuses[rng.Intn(len(statuses))]
			}
			if rng.Intn(3) == 0 {
				f.Brand = brands[rng.Intn(len(brands))]
			}
			if rng.Intn(3) == 0 {
				f.RAMMin = 4 << rng.Intn(5)
			}
			if rng.Intn(3) == 0 {
				f.RAMMax = 4 << rng.Intn(5)
			}
			if rng.Intn(3) == 0 {
				f.Assignment = []string{asset.AssignmentAssigned, asset.AssignmentUnassigned}[rng.Intn(2)]
			}
			if rng.Intn(4) == 0 {
				d := now.AddDate(0, 0, -rng.Intn(900))
				f.PurchasedFrom = &d
			}
			if rng.Intn(4) == 0 {
				d := now.AddDate(0, 0, -rng.Intn(900))
				f.PurchasedTo = &d
			}
			if rng.Intn(4) == 0 {
				f.WarrantyExpiringSoon = true
			}
			return f
		}

		// independent restatement of every criterion, used as the oracle
		satisfies := func(p *asset.PcWithEmployee, f asset.FilterState) bool {
			if f.Search != "" {
				needle := strings.ToLower(f.Search)
				hit := strings.Contains(strings.ToLower(p.AssetTag), needle) ||
					strings.Contains(strings.ToLower(p.Brand), needle) ||
					strings.Contains(strings.ToLower(p.Model), needle) ||
					strings.Contains(strings.ToLower(p.SerialNumber), needle) ||
					(p.Employee != nil && strings.Contains(strings.ToLower(p.Employee.Name), needle))
				if !hit {
					return false
				}
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
			if f.Assignment == asset.AssignmentAssigned && !p.IsAssigned() {
				return false
			}
			if f.Assignment == asset.AssignmentUnassigned && p.IsAssigned() {
				return false
			}
			if f.PurchasedFrom != nil && (p.PurchaseDate == nil || p.PurchaseDate.Before(*f.PurchasedFrom)) {
				return false
			}
			if f.PurchasedTo != nil && (p.PurchaseDate == nil || p.PurchaseDate.After(*f.PurchasedTo)) {
				return false
			}
			if f.WarrantyExpiringSoon {
				if p.WarrantyExpiry == nil || p.WarrantyExpiry.Before(now) {
					return false
				}
				if int(p.WarrantyExpiry.Sub(now).Hours()/24) > asset.WarrantyWindowDays {
					return false
				}
			}
			return true
		}

		It("keeps exactly the assets satisfying every active criterion", func() {
			for round := 0; round < 25; round++ {
				pcs := make([]*asset.PcWithEmployee, 0, 40)
				for i := 0; i < 40; i++ {
					pcs = append(pcs, randomPc(int64(i+1)))
				}
				f := randomFilter()

				got := asset.Filter(pcs, f, now, th)

				kept := make(map[int64]bool, len(got))
				for _, p := range got {
					kept[p.ID] = true
					Expect(satisfies(p, f)).To(BeTrue(), "kept pc %d violates filter %+v", p.ID, f)
				}
				for _, p := range pcs {
					if !kept[p.ID] {
						Expect(satisfies(p, f)).To(BeFalse(), "dropped pc %d satisfies filter %+v", p.ID, f)
					}
				}
			}
		})
	})
})
