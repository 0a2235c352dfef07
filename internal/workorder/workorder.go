package workorder

import (
	"errors"
	"time"
)

// Work order lifecycle: open -> in_progress -> done, with cancellation
// allowed from open and in_progress. Done and cancelled are terminal.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
)

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

var validPriorities = map[string]bool{
	PriorityLow:      true,
	PriorityMedium:   true,
	PriorityHigh:     true,
	PriorityCritical: true,
}

var transitions = map[string][]string{
	StatusOpen:       {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDone, StatusCancelled},
}

// CanTransition reports whether the status machine allows from -> to.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// WorkOrder is a maintenance task against a plant, optionally pinned to
// a piece of equipment and an assignee.
type WorkOrder struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	PlantID      int64      `json:"plant_id" gorm:"column:plant_id;not null"`
	EquipmentID  *int64     `json:"equipment_id,omitempty" gorm:"column:equipment_id"`
	AssigneeID   *int64     `json:"assignee_id,omitempty" gorm:"column:assignee_id"`
	CreatedBy    int64      `json:"created_by" gorm:"column:created_by;not null"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description,omitempty"`
	Priority     string     `json:"priority" gorm:"default:medium"`
	Status       string     `json:"status" gorm:"default:open"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty" gorm:"column:scheduled_for"`
	StartedAt    *time.Time `json:"started_at,omitempty" gorm:"column:started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty" gorm:"column:cancelled_at"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (WorkOrder) TableName() string {
	return "work_orders"
}

// IsTerminal reports whether the work order reached a final status.
func (wo *WorkOrder) IsTerminal() bool {
	return wo.Status == StatusDone || wo.Status == StatusCancelled
}

type CreateWorkOrderDTO struct {
	PlantID      int64      `json:"plant_id"`
	EquipmentID  *int64     `json:"equipment_id,omitempty"`
	AssigneeID   *int64     `json:"assignee_id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Priority     string     `json:"priority,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
}

func (dto CreateWorkOrderDTO) Validate() error {
	if dto.PlantID <= 0 {
		return errors.New("plant_id is required")
	}
	if dto.Title == "" {
		return errors.New("title is required")
	}
	if dto.Priority != "" && !validPriorities[dto.Priority] {
		return errors.New("priority must be one of low, medium, high, critical")
	}
	return nil
}

type UpdateWorkOrderDTO struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Priority     *string    `json:"priority,omitempty"`
	AssigneeID   *int64     `json:"assignee_id,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
}

func (dto UpdateWorkOrderDTO) Validate() error {
	if dto.Title != nil && *dto.Title == "" {
		return errors.New("title must not be empty")
	}
	if dto.Priority != nil && !validPriorities[*dto.Priority] {
		return errors.New("priority must be one of low, medium, high, critical")
	}
	return nil
}

// TransitionDTO requests a status change.
type TransitionDTO struct {
	Status string `json:"status"`
}

func (dto TransitionDTO) Validate() error {
	switch dto.Status {
	case StatusInProgress, StatusDone, StatusCancelled:
		return nil
	case StatusOpen:
		return errors.New("work orders cannot move back to open")
	default:
		return errors.New("status must be one of in_progress, done, cancelled")
	}
}
