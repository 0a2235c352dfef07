package workorder_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/equipment"
	"github.com/upenergia/asset-management/internal/plant"
	"github.com/upenergia/asset-management/internal/workorder"
)

func TestWorkOrderService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "WorkOrder Service Suite")
}

// Mock repository for testing
type mockWorkOrderRepository struct {
	orders map[int64]*workorder.WorkOrder
	nextID int64
}

func newMockWorkOrderRepository() *mockWorkOrderRepository {
	return &mockWorkOrderRepository{
		orders: make(map[int64]*workorder.WorkOrder),
		nextID: 1,
	}
}

func (m *mockWorkOrderRepository) Create(wo *workorder.WorkOrder) error {
	wo.ID = m.nextID
	m.nextID++
	copied := *wo
	m.orders[wo.ID] = &copied
	return nil
}

func (m *mockWorkOrderRepository) GetByID(id int64) (*workorder.WorkOrder, error) {
	wo, ok := m.orders[id]
	if !ok {
		return nil, internal.NewNotFoundError("work order not found", internal.ErrCodeWorkOrderNotFound)
	}
	copied := *wo
	return &copied, nil
}

func (m *mockWorkOrderRepository) List(filter workorder.ListFilter, limit, offset int) ([]*workorder.WorkOrder, int64, error) {
	var result []*workorder.WorkOrder
	for _, wo := range m.orders {
		if filter.PlantID != nil && wo.PlantID != *filter.PlantID {
			continue
		}
		if filter.Status != nil && wo.Status != *filter.Status {
			continue
		}
		if filter.AssigneeID != nil && (wo.AssigneeID == nil || *wo.AssigneeID != *filter.AssigneeID) {
			continue
		}
		copied := *wo
		result = append(result, &copied)
	}
	return result, int64(len(result)), nil
}

func (m *mockWorkOrderRepository) Update(wo *workorder.WorkOrder) error {
	if _, ok := m.orders[wo.ID]; !ok {
		return internal.NewNotFoundError("work order not found", internal.ErrCodeWorkOrderNotFound)
	}
	copied := *wo
	m.orders[wo.ID] = &copied
	return nil
}

type mockPlantGetter struct {
	plants map[int64]*plant.Plant
}

func (m *mockPlantGetter) GetByID(id int64) (*plant.Plant, error) {
	p, ok := m.plants[id]
	if !ok {
		return nil, internal.NewNotFoundError("plant not found", internal.ErrCodePlantNotFound)
	}
	return p, nil
}

type mockEquipmentGetter struct {
	equipments map[int64]*equipment.Equipment
}

func (m *mockEquipmentGetter) GetByID(id int64) (*equipment.Equipment, error) {
	e, ok := m.equipments[id]
	if !ok {
		return nil, internal.NewNotFoundError("equipment not found", internal.ErrCodeEquipmentNotFound)
	}
	return e, nil
}

var _ = Describe("WorkOrderService", func() {
	var (
		service   *workorder.Service
		mockRepo  *mockWorkOrderRepository
		plants    *mockPlantGetter
		equipGet  *mockEquipmentGetter
		fixedTime time.Time
	)

	expectValidation := func(err error, code internal.ErrorCode) {
		Expect(err).To(HaveOccurred())
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		Expect(appErr.Code).To(Equal(code))
	}

	BeforeEach(func() {
		mockRepo = newMockWorkOrderRepository()
		plants = &mockPlantGetter{plants: map[int64]*plant.Plant{
			1: {ID: 1, Name: "UFV Sertão Central"},
			2: {ID: 2, Name: "PCH Rio Claro"},
		}}
		equipGet = &mockEquipmentGetter{equipments: map[int64]*equipment.Equipment{
			10: {ID: 10, PlantID: 1, Name: "Inversor 01"},
			20: {ID: 20, PlantID: 2, Name: "Turbina 01"},
		}}

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		fixedTime = time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
		service = workorder.NewService(mockRepo, plants, equipGet, logger).
			WithClock(func() time.Time { return fixedTime })
	})

	Describe("CreateWorkOrder", func() {
		It("should open a work order with medium priority by default", func() {
			wo, err := service.CreateWorkOrder(5, workorder.CreateWorkOrderDTO{
				PlantID: 1,
				Title:   "Inspeção preventiva",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(wo.Status).To(Equal(workorder.StatusOpen))
			Expect(wo.Priority).To(Equal(workorder.PriorityMedium))
			Expect(wo.CreatedBy).To(Equal(int64(5)))
			Expect(wo.CreatedAt).To(Equal(fixedTime))
		})

		It("should accept an equipment belonging to the plant", func() {
			equipID := int64(10)
			wo, err := service.CreateWorkOrder(5, workorder.CreateWorkOrderDTO{
				PlantID:     1,
				EquipmentID: &equipID,
				Title:       "Troca de módulo",
				Priority:    workorder.PriorityHigh,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(*wo.EquipmentID).To(Equal(equipID))
			Expect(wo.Priority).To(Equal(workorder.PriorityHigh))
		})

		It("should reject an equipment from another plant", func() {
			equipID := int64(20)
			_, err := service.CreateWorkOrder(5, workorder.CreateWorkOrderDTO{
				PlantID:     1,
				EquipmentID: &equipID,
				Title:       "Troca de módulo",
			})
			expectValidation(err, internal.ErrCodeValidationFailed)
		})

		It("should fail NotFound for an unknown plant", func() {
			_, err := service.CreateWorkOrder(5, workorder.CreateWorkOrderDTO{
				PlantID: 99,
				Title:   "Inspeção",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
			Expect(appErr.Code).To(Equal(internal.ErrCodePlantNotFound))
		})

		It("should fail NotFound for an unknown equipment", func() {
			equipID := int64(99)
			_, err := service.CreateWorkOrder(5, workorder.CreateWorkOrderDTO{
				PlantID:     1,
				EquipmentID: &equipID,
				Title:       "Inspeção",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeEquipmentNotFound))
		})

		It("should reject an empty title", func() {
			_, err := service.CreateWorkOrder(5, workorder.CreateWorkOrderDTO{PlantID: 1})
			expectValidation(err, internal.ErrCodeValidationFailed)
		})

		It("should reject an unknown priority", func() {
			_, err := service.CreateWorkOrder(5, workorder.CreateWorkOrderDTO{
				PlantID:  1,
				Title:    "Inspeção",
				Priority: "urgentíssima",
			})
			expectValidation(err, internal.ErrCodeValidationFailed)
		})
	})

	Describe("Transition", func() {
		var created *workorder.WorkOrder

		BeforeEach(func() {
			var err error
			created, err = service.CreateWorkOrder(5, workorder.CreateWorkOrderDTO{
				PlantID: 1,
				Title:   "Manutenção corretiva",
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should move open to in_progress and stamp started_at", func() {
			wo, err := service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusInProgress})
			Expect(err).ToNot(HaveOccurred())
			Expect(wo.Status).To(Equal(workorder.StatusInProgress))
			Expect(wo.StartedAt).ToNot(BeNil())
			Expect(*wo.StartedAt).To(Equal(fixedTime))
			Expect(wo.CompletedAt).To(BeNil())
		})

		It("should move in_progress to done and stamp completed_at", func() {
			_, err := service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusInProgress})
			Expect(err).ToNot(HaveOccurred())

			wo, err := service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusDone})
			Expect(err).ToNot(HaveOccurred())
			Expect(wo.Status).To(Equal(workorder.StatusDone))
			Expect(wo.CompletedAt).ToNot(BeNil())
		})

		It("should allow cancelling from open", func() {
			wo, err := service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusCancelled})
			Expect(err).ToNot(HaveOccurred())
			Expect(wo.CancelledAt).ToNot(BeNil())
		})

		It("should allow cancelling from in_progress", func() {
			_, err := service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusInProgress})
			Expect(err).ToNot(HaveOccurred())

			wo, err := service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusCancelled})
			Expect(err).ToNot(HaveOccurred())
			Expect(wo.Status).To(Equal(workorder.StatusCancelled))
		})

		It("should refuse skipping straight from open to done", func() {
			_, err := service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusDone})
			expectValidation(err, internal.ErrCodeInvalidTransition)
		})

		It("should refuse moving back to open", func() {
			_, err := service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusInProgress})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusOpen})
			expectValidation(err, internal.ErrCodeValidationFailed)
		})

		It("should freeze done orders", func() {
			_, err := service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusInProgress})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusDone})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusCancelled})
			expectValidation(err, internal.ErrCodeInvalidTransition)
		})

		It("should freeze cancelled orders", func() {
			_, err := service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusCancelled})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusInProgress})
			expectValidation(err, internal.ErrCodeInvalidTransition)
		})

		It("should fail NotFound for an unknown work order", func() {
			_, err := service.Transition(999, workorder.TransitionDTO{Status: workorder.StatusInProgress})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})
	})

	Describe("UpdateWorkOrder", func() {
		var created *workorder.WorkOrder

		BeforeEach(func() {
			var err error
			created, err = service.CreateWorkOrder(5, workorder.CreateWorkOrderDTO{
				PlantID: 1,
				Title:   "Limpeza de painéis",
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should patch title, priority and assignee", func() {
			title := "Limpeza de painéis - string 3"
			priority := workorder.PriorityLow
			assignee := int64(7)

			wo, err := service.UpdateWorkOrder(created.ID, workorder.UpdateWorkOrderDTO{
				Title:      &title,
				Priority:   &priority,
				AssigneeID: &assignee,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(wo.Title).To(Equal(title))
			Expect(wo.Priority).To(Equal(priority))
			Expect(*wo.AssigneeID).To(Equal(assignee))
		})

		It("should refuse patching a terminal order", func() {
			_, err := service.Transition(created.ID, workorder.TransitionDTO{Status: workorder.StatusCancelled})
			Expect(err).ToNot(HaveOccurred())

			title := "novo título"
			_, err = service.UpdateWorkOrder(created.ID, workorder.UpdateWorkOrderDTO{Title: &title})
			expectValidation(err, internal.ErrCodeInvalidTransition)
		})

		It("should reject blanking the title", func() {
			empty := ""
			_, err := service.UpdateWorkOrder(created.ID, workorder.UpdateWorkOrderDTO{Title: &empty})
			expectValidation(err, internal.ErrCodeValidationFailed)
		})
	})

	Describe("ListWorkOrders", func() {
		BeforeEach(func() {
			assignee := int64(7)
			_, err := service.CreateWorkOrder(5, workorder.CreateWorkOrderDTO{PlantID: 1, Title: "OS 1"})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.CreateWorkOrder(5, workorder.CreateWorkOrderDTO{PlantID: 2, Title: "OS 2", AssigneeID: &assignee})
			Expect(err).ToNot(HaveOccurred())
			second, err := service.CreateWorkOrder(5, workorder.CreateWorkOrderDTO{PlantID: 1, Title: "OS 3"})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.Transition(second.ID, workorder.TransitionDTO{Status: workorder.StatusInProgress})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should filter by plant", func() {
			plantID := int64(1)
			_, total, err := service.ListWorkOrders(workorder.ListFilter{PlantID: &plantID}, 10, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
		})

		It("should filter by status", func() {
			status := workorder.StatusInProgress
			rows, total, err := service.ListWorkOrders(workorder.ListFilter{Status: &status}, 10, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(rows[0].Title).To(Equal("OS 3"))
		})

		It("should filter by assignee", func() {
			assignee := int64(7)
			rows, total, err := service.ListWorkOrders(workorder.ListFilter{AssigneeID: &assignee}, 10, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(rows[0].Title).To(Equal("OS 2"))
		})
	})

	Describe("CanTransition", func() {
		It("should encode the full status machine", func() {
			Expect(workorder.CanTransition(workorder.StatusOpen, workorder.StatusInProgress)).To(BeTrue())
			Expect(workorder.CanTransition(workorder.StatusOpen, workorder.StatusCancelled)).To(BeTrue())
			Expect(workorder.CanTransition(workorder.StatusOpen, workorder.StatusDone)).To(BeFalse())
			Expect(workorder.CanTransition(workorder.StatusInProgress, workorder.StatusDone)).To(BeTrue())
			Expect(workorder.CanTransition(workorder.StatusInProgress, workorder.StatusCancelled)).To(BeTrue())
			Expect(workorder.CanTransition(workorder.StatusDone, workorder.StatusInProgress)).To(BeFalse())
			Expect(workorder.CanTransition(workorder.StatusCancelled, workorder.StatusInProgress)).To(BeFalse())
		})
	})
})
