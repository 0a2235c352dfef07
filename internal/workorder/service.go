package workorder

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/equipment"
	"github.com/upenergia/asset-management/internal/plant"
)

type RepositoryAPI interface {
	Create(wo *WorkOrder) error
	GetByID(id int64) (*WorkOrder, error)
	List(filter ListFilter, limit, offset int) ([]*WorkOrder, int64, error)
	Update(wo *WorkOrder) error
}

// ListFilter narrows work order listings.
type ListFilter struct {
	PlantID    *int64
	Status     *string
	AssigneeID *int64
}

type PlantGetter interface {
	GetByID(id int64) (*plant.Plant, error)
}

type EquipmentGetter interface {
	GetByID(id int64) (*equipment.Equipment, error)
}

type Service struct {
	repo      RepositoryAPI
	plants    PlantGetter
	equipment EquipmentGetter
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, plants PlantGetter, equip EquipmentGetter, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		plants:    plants,
		equipment: equip,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateWorkOrder opens a maintenance task. The plant must exist; when
// an equipment is named it must exist and belong to that plant.
func (s *Service) CreateWorkOrder(creatorID int64, dto CreateWorkOrderDTO) (*WorkOrder, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.plants.GetByID(dto.PlantID); err != nil {
		return nil, internal.NewNotFoundError("plant not found", internal.ErrCodePlantNotFound)
	}

	if dto.EquipmentID != nil {
		e, err := s.equipment.GetByID(*dto.EquipmentID)
		if err != nil {
			return nil, internal.NewNotFoundError("equipment not found", internal.ErrCodeEquipmentNotFound)
		}
		if e.PlantID != dto.PlantID {
			return nil, internal.NewValidationError("equipment does not belong to the given plant", internal.ErrCodeValidationFailed)
		}
	}

	priority := dto.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	wo := &WorkOrder{
		PlantID:      dto.PlantID,
		EquipmentID:  dto.EquipmentID,
		AssigneeID:   dto.AssigneeID,
		CreatedBy:    creatorID,
		Title:        dto.Title,
		Description:  dto.Description,
		Priority:     priority,
		Status:       StatusOpen,
		ScheduledFor: dto.ScheduledFor,
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	}

	if err := s.repo.Create(wo); err != nil {
		s.logger.Error("failed to create work order", "error", err, "plant_id", dto.PlantID)
		return nil, err
	}

	s.logger.Info("work order created",
		"work_order_id", wo.ID,
		"plant_id", wo.PlantID,
		"priority", wo.Priority,
		"created_by", creatorID)
	return wo, nil
}

func (s *Service) GetWorkOrder(id int64) (*WorkOrder, error) {
	wo, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("work order not found", internal.ErrCodeWorkOrderNotFound)
	}
	return wo, nil
}

func (s *Service) ListWorkOrders(filter ListFilter, limit, offset int) ([]*WorkOrder, int64, error) {
	return s.repo.List(filter, limit, offset)
}

// UpdateWorkOrder patches mutable fields. Terminal orders are frozen.
func (s *Service) UpdateWorkOrder(id int64, dto UpdateWorkOrderDTO) (*WorkOrder, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	wo, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("work order not found", internal.ErrCodeWorkOrderNotFound)
	}

	if wo.IsTerminal() {
		return nil, internal.NewValidationError("finished work orders cannot be modified", internal.ErrCodeInvalidTransition)
	}

	if dto.Title != nil {
		wo.Title = *dto.Title
	}
	if dto.Description != nil {
		wo.Description = *dto.Description
	}
	if dto.Priority != nil {
		wo.Priority = *dto.Priority
	}
	if dto.AssigneeID != nil {
		wo.AssigneeID = dto.AssigneeID
	}
	if dto.ScheduledFor != nil {
		wo.ScheduledFor = dto.ScheduledFor
	}
	wo.UpdatedAt = s.now()

	if err := s.repo.Update(wo); err != nil {
		s.logger.Error("failed to update work order", "error", err, "work_order_id", id)
		return nil, err
	}

	return wo, nil
}

// Transition moves the work order through its status machine and stamps
// the matching timestamp.
func (s *Service) Transition(id int64, dto TransitionDTO) (*WorkOrder, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	wo, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("work order not found", internal.ErrCodeWorkOrderNotFound)
	}

	if !CanTransition(wo.Status, dto.Status) {
		s.logger.Warn("work order transition rejected",
			"work_order_id", id,
			"from", wo.Status,
			"to", dto.Status)
		msg := fmt.Sprintf("cannot transition work order from %s to %s", wo.Status, dto.Status)
		return nil, internal.NewValidationError(msg, internal.ErrCodeInvalidTransition)
	}

	now := s.now()
	wo.Status = dto.Status
	switch dto.Status {
	case StatusInProgress:
		wo.StartedAt = &now
	case StatusDone:
		wo.CompletedAt = &now
	case StatusCancelled:
		wo.CancelledAt = &now
	}
	wo.UpdatedAt = now

	if err := s.repo.Update(wo); err != nil {
		s.logger.Error("failed to transition work order", "error", err, "work_order_id", id)
		return nil, err
	}

	s.logger.Info("work order transitioned", "work_order_id", id, "status", dto.Status)
	return wo, nil
}
