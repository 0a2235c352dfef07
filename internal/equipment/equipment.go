package equipment

import (
	"errors"
	"time"
)

// Equipment is a physical asset installed at a plant: inverters,
// transformers, trackers, meters.
type Equipment struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	PlantID      int64      `json:"plant_id" gorm:"column:plant_id;not null"`
	Name         string     `json:"name" gorm:"not null"`
	Category     string     `json:"category" gorm:"not null"`
	SerialNumber string     `json:"serial_number,omitempty" gorm:"column:serial_number"`
	Manufacturer string     `json:"manufacturer,omitempty"`
	InstalledAt  *time.Time `json:"installed_at,omitempty" gorm:"column:installed_at"`
	IsActive     bool       `json:"is_active" gorm:"column:is_active;default:true"`
	DeletedAt    *time.Time `json:"-" gorm:"column:deleted_at"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Equipment) TableName() string {
	return "equipments"
}

type CreateEquipmentDTO struct {
	PlantID      int64      `json:"plant_id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	SerialNumber string     `json:"serial_number,omitempty"`
	Manufacturer string     `json:"manufacturer,omitempty"`
	InstalledAt  *time.Time `json:"installed_at,omitempty"`
}

func (dto CreateEquipmentDTO) Validate() error {
	if dto.PlantID <= 0 {
		return errors.New("plant_id is required")
	}
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.Category == "" {
		return errors.New("category is required")
	}
	return nil
}

type UpdateEquipmentDTO struct {
	Name         *string    `json:"name,omitempty"`
	Category     *string    `json:"category,omitempty"`
	SerialNumber *string    `json:"serial_number,omitempty"`
	Manufacturer *string    `json:"manufacturer,omitempty"`
	InstalledAt  *time.Time `json:"installed_at,omitempty"`
}

func (dto UpdateEquipmentDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return errors.New("name must not be empty")
	}
	if dto.Category != nil && *dto.Category == "" {
		return errors.New("category must not be empty")
	}
	return nil
}
