package asset_test

import (
	"context"
	"log/slog"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/asset"
	pcDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/pc"
	"github.com/frahmantamala/asset-management/internal/core/events"
	"github.com/frahmantamala/asset-management/internal/employee"
)

// Mock repositories for testing
type mockPcRepository struct {
	pcs       map[int64]*asset.Pc
	employees *mockEmployeeDirectory
	nextID    int64
}

func newMockPcRepository(employees *mockEmployeeDirectory) *mockPcRepository {
	return &mockPcRepository{
		pcs:       make(map[int64]*asset.Pc),
		employees: employees,
		nextID:    1,
	}
}

func (m *mockPcRepository) Create(p *asset.Pc) error {
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	copied := *p
	m.pcs[p.ID] = &copied
	return nil
}

func (m *mockPcRepository) GetByID(id int64) (*asset.PcWithEmployee, error) {
	p, ok := m.pcs[id]
	if !ok {
		return nil, errors.ErrPcNotFound
	}
	return m.project(p), nil
}

func (m *mockPcRepository) GetAll() ([]*asset.PcWithEmployee, error) {
	out := make([]*asset.PcWithEmployee, 0, len(m.pcs))
	for _, p := range m.pcs {
		out = append(out, m.project(p))
	}
	return out, nil
}

func (m *mockPcRepository) project(p *asset.Pc) *asset.PcWithEmployee {
	copied := *p
	withEmp := &asset.PcWithEmployee{Pc: copied}
	if p.EmployeeID != nil {
		if e, err := m.employees.GetByID(*p.EmployeeID); err == nil {
			withEmp.Employee = &asset.EmployeeRef{ID: e.ID, Name: e.Name, Email: e.Email}
		}
	}
	return withEmp
}

func (m *mockPcRepository) Update(p *asset.Pc) error {
	if _, ok := m.pcs[p.ID]; !ok {
		return errors.ErrPcNotFound
	}
	copied := *p
	m.pcs[p.ID] = &copied
	return nil
}

func (m *mockPcRepository) Delete(id int64) error {
	if _, ok := m.pcs[id]; !ok {
		return errors.ErrPcNotFound
	}
	delete(m.pcs, id)
	return nil
}

func (m *mockPcRepository) AssetTagExists(tag string, excludeID int64) (bool, error) {
	for _, p := range m.pcs {
		if p.AssetTag == tag && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPcRepository) SerialNumberExists(serial string, excludeID int64) (bool, error) {
	for _, p := range m.pcs {
		if p.SerialNumber == serial && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPcRepository) UnassignAllForEmployee(employeeID int64) error {
	for _, p := range m.pcs {
		if p.EmployeeID != nil && *p.EmployeeID == employeeID {
			p.EmployeeID = nil
		}
	}
	return nil
}

type mockHistoryRepository struct {
	rows   []*pcDatamodel.PcHistory
	nextID int64
}

func newMockHistoryRepository() *mockHistoryRepository {
	return &mockHistoryRepository{nextID: 1}
}

func (m *mockHistoryRepository) Append(h *pcDatamodel.PcHistory) error {
	h.ID = m.nextID
	m.nextID++
	m.rows = append(m.rows, h)
	return nil
}

func (m *mockHistoryRepository) GetByPcID(pcID int64) ([]*asset.History, error) {
	var out []*asset.History
	for _, row := range m.rows {
		if row.PcID == pcID {
			out = append(out, asset.FromHistoryDataModel(row))
		}
	}
	return out, nil
}

func (m *mockHistoryRepository) GetBySerialPrefix(prefix string) ([]*asset.History, error) {
	var out []*asset.History
	for _, row := range m.rows {
		if strings.HasPrefix(row.SerialNumber, prefix) {
			out = append(out, asset.FromHistoryDataModel(row))
		}
	}
	return out, nil
}

type mockEmployeeDirectory struct {
	employees map[int64]*employee.Employee
}

func (m *mockEmployeeDirectory) GetByID(id int64) (*employee.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, errors.ErrEmployeeNotFound
}

var _ = Describe("Asset Service", func() {
	var (
		repo      *mockPcRepository
		history   *mockHistoryRepository
		employees *mockEmployeeDirectory
		service   *asset.Service
		ctx       context.Context
	)

	newCreateDTO := func(tag, serial string) asset.CreatePcDTO {
		return asset.CreatePcDTO{
			AssetTag:     tag,
			Brand:        "Lenovo",
			Model:        "ThinkPad T14",
			CPU:          "Ryzen 7",
			RAM:          32,
			Storage:      "1TB NVMe",
			OS:           "Ubuntu",
			SerialNumber: serial,
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		employees = &mockEmployeeDirectory{employees: map[int64]*employee.Employee{
			9: {ID: 9, Name: "Dana Mulyana", Email: "dana@example.com"},
		}}
		repo = newMockPcRepository(employees)
		history = newMockHistoryRepository()

		lg := slog.Default()
		bus := events.NewEventBus(lg)
		asset.NewHistoryRecorder(history, lg).Register(bus)

		service = asset.NewService(repo, history, employees, bus, "pc_inventory", asset.DefaultThresholds(), lg)
	})

	Describe("CreatePc", func() {
		It("registers the pc and appends a created history row", func() {
			p, err := service.CreatePc(ctx, newCreateDTO("PC-001", "SN-001"), "admin")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).NotTo(BeZero())
			Expect(p.Status).To(Equal(asset.StatusActive))

			rows, _ := history.GetByPcID(p.ID)
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].EventType).To(Equal(asset.HistoryCreated))
			Expect(*rows[0].ActorName).To(Equal("admin"))
		})

		It("rejects duplicate asset tags with a conflict", func() {
			_, err := service.CreatePc(ctx, newCreateDTO("PC-001", "SN-001"), "admin")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreatePc(ctx, newCreateDTO("PC-001", "SN-002"), "admin")
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
		})

		It("rejects duplicate serial numbers with a conflict", func() {
			_, err := service.CreatePc(ctx, newCreateDTO("PC-001", "SN-001"), "admin")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreatePc(ctx, newCreateDTO("PC-002", "SN-001"), "admin")
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
		})

		It("rejects assignment to a nonexistent employee", func() {
			dto := newCreateDTO("PC-001", "SN-001")
			missing := int64(404)
			dto.EmployeeID = &missing

			_, err := service.CreatePc(ctx, dto, "admin")
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("AssignPc and UnassignPc", func() {
		var pcID int64

		BeforeEach(func() {
			p, err := service.CreatePc(ctx, newCreateDTO("PC-001", "SN-001"), "admin")
			Expect(err).NotTo(HaveOccurred())
			pcID = p.ID
		})

		It("assigns to an existing employee and records their name", func() {
			p, err := service.AssignPc(ctx, pcID, asset.AssignPcDTO{EmployeeID: 9}, "admin")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Employee.Name).To(Equal("Dana Mulyana"))

			rows, _ := history.GetByPcID(pcID)
			last := rows[len(rows)-1]
			Expect(last.EventType).To(Equal(asset.HistoryAssigned))
			Expect(*last.EmployeeName).To(Equal("Dana Mulyana"))
		})

		It("records the previous holder when unassigning", func() {
			_, err := service.AssignPc(ctx, pcID, asset.AssignPcDTO{EmployeeID: 9}, "admin")
			Expect(err).NotTo(HaveOccurred())

			p, err := service.UnassignPc(ctx, pcID, "admin")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.IsAssigned()).To(BeFalse())

			rows, _ := history.GetByPcID(pcID)
			last := rows[len(rows)-1]
			Expect(last.EventType).To(Equal(asset.HistoryUnassigned))
			Expect(*last.EmployeeName).To(Equal("Dana Mulyana"))
		})

		It("treats unassigning an unassigned pc as a no-op", func() {
			before, _ := history.GetByPcID(pcID)

			_, err := service.UnassignPc(ctx, pcID, "admin")
			Expect(err).NotTo(HaveOccurred())

			after, _ := history.GetByPcID(pcID)
			Expect(after).To(HaveLen(len(before)))
		})
	})

	Describe("SetStatus", func() {
		var pcID int64

		BeforeEach(func() {
			p, err := service.CreatePc(ctx, newCreateDTO("PC-001", "SN-001"), "admin")
			Expect(err).NotTo(HaveOccurred())
			pcID = p.ID
		})

		It("records a maintenance event when entering maintenance", func() {
			p, err := service.SetStatus(ctx, pcID, asset.SetStatusDTO{Status: asset.StatusMaintenance}, "admin")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Status).To(Equal(asset.StatusMaintenance))

			rows, _ := history.GetByPcID(pcID)
			last := rows[len(rows)-1]
			Expect(last.EventType).To(Equal(asset.HistoryMaintenance))
			Expect(*last.OldValue).To(Equal(asset.StatusActive))
			Expect(*last.NewValue).To(Equal(asset.StatusMaintenance))
		})

		It("records a status change for other transitions", func() {
			_, err := service.SetStatus(ctx, pcID, asset.SetStatusDTO{Status: asset.StatusRetired}, "admin")
			Expect(err).NotTo(HaveOccurred())

			rows, _ := history.GetByPcID(pcID)
			Expect(rows[len(rows)-1].EventType).To(Equal(asset.HistoryStatusChange))
		})

		It("skips the event when the status does not change", func() {
			before, _ := history.GetByPcID(pcID)

			_, err := service.SetStatus(ctx, pcID, asset.SetStatusDTO{Status: asset.StatusActive}, "admin")
			Expect(err).NotTo(HaveOccurred())

			after, _ := history.GetByPcID(pcID)
			Expect(after).To(HaveLen(len(before)))
		})

		It("rejects unknown statuses", func() {
			_, err := service.SetStatus(ctx, pcID, asset.SetStatusDTO{Status: "broken"}, "admin")
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("UpdatePc", func() {
		var pcID int64

		BeforeEach(func() {
			p, err := service.CreatePc(ctx, newCreateDTO("PC-001", "SN-001"), "admin")
			Expect(err).NotTo(HaveOccurred())
			pcID = p.ID
		})

		It("records spec changes with old and new values", func() {
			ram := 64
			_, err := service.UpdatePc(ctx, pcID, asset.UpdatePcDTO{RAM: &ram}, "admin")
			Expect(err).NotTo(HaveOccurred())

			rows, _ := history.GetByPcID(pcID)
			last := rows[len(rows)-1]
			Expect(last.EventType).To(Equal(asset.HistorySpecsUpdate))
			Expect(*last.OldValue).To(ContainSubstring("ram=32"))
			Expect(*last.NewValue).To(ContainSubstring("ram=64"))
		})

		It("records notes changes separately from spec changes", func() {
			notes := "screen flickers intermittently"
			_, err := service.UpdatePc(ctx, pcID, asset.UpdatePcDTO{Notes: &notes}, "admin")
			Expect(err).NotTo(HaveOccurred())

			rows, _ := history.GetByPcID(pcID)
			Expect(rows[len(rows)-1].EventType).To(Equal(asset.HistoryNotesUpdate))
		})

		It("does nothing when no field actually changes", func() {
			before, _ := history.GetByPcID(pcID)

			ram := 32
			_, err := service.UpdatePc(ctx, pcID, asset.UpdatePcDTO{RAM: &ram}, "admin")
			Expect(err).NotTo(HaveOccurred())

			after, _ := history.GetByPcID(pcID)
			Expect(after).To(HaveLen(len(before)))
		})
	})

	Describe("DeletePc", func() {
		It("removes the pc but keeps its audit trail", func() {
			p, err := service.CreatePc(ctx, newCreateDTO("PC-001", "SN-001"), "admin")
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeletePc(p.ID)).To(Succeed())

			_, err = service.GetPc(p.ID)
			Expect(err).To(Equal(errors.ErrPcNotFound))

			rows, _ := service.HistoryBySerialPrefix("SN-001")
			Expect(rows).NotTo(BeEmpty())
		})
	})

	Describe("History queries", func() {
		It("requires a serial prefix", func() {
			_, err := service.HistoryBySerialPrefix("")
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("matches by prefix only", func() {
			_, err := service.CreatePc(ctx, newCreateDTO("PC-001", "LNV-001"), "admin")
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreatePc(ctx, newCreateDTO("PC-002", "DLL-002"), "admin")
			Expect(err).NotTo(HaveOccurred())

			rows, err := service.HistoryBySerialPrefix("LNV")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].SerialNumber).To(Equal("LNV-001"))
		})
	})

	Describe("ExportCSV", func() {
		It("errors when the filter matches nothing", func() {
			_, _, err := service.ExportCSV(asset.FilterState{})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("names the file after the report and today's date", func() {
			_, err := service.CreatePc(ctx, newCreateDTO("PC-001", "SN-001"), "admin")
			Expect(err).NotTo(HaveOccurred())

			filename, data, err := service.ExportCSV(asset.FilterState{})
			Expect(err).NotTo(HaveOccurred())
			Expect(filename).To(Equal("pc_inventory_" + time.Now().Format("2006-01-02") + ".csv"))
			Expect(data).To(HavePrefix("asset_tag,"))
			Expect(data).To(ContainSubstring("PC-001"))
		})
	})
})
