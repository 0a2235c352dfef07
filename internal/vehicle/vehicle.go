package vehicle

import (
	"errors"
	"time"
)

// Vehicle belongs to a plant's fleet. Availability gates new reservations.
type Vehicle struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	PlantID     *int64     `json:"plant_id,omitempty" gorm:"column:plant_id"`
	Plate       string     `json:"plate" gorm:"uniqueIndex;not null"`
	Model       string     `json:"model"`
	Brand       string     `json:"brand"`
	Year        int        `json:"year"`
	IsAvailable bool       `json:"is_available" gorm:"column:is_available;default:true"`
	IsActive    bool       `json:"is_active" gorm:"column:is_active;default:true"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" gorm:"column:deleted_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

type CreateVehicleDTO struct {
	PlantID *int64 `json:"plant_id,omitempty"`
	Plate   string `json:"plate"`
	Model   string `json:"model"`
	Brand   string `json:"brand"`
	Year    int    `json:"year"`
}

func (dto CreateVehicleDTO) Validate() error {
	if dto.Plate == "" {
		return errors.New("plate is required")
	}
	if dto.Model == "" {
		return errors.New("model is required")
	}
	if dto.Year != 0 && (dto.Year < 1950 || dto.Year > time.Now().Year()+1) {
		return errors.New("year is out of range")
	}
	return nil
}

type UpdateVehicleDTO struct {
	PlantID     *int64  `json:"plant_id,omitempty"`
	Model       *string `json:"model,omitempty"`
	Brand       *string `json:"brand,omitempty"`
	Year        *int    `json:"year,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

func (dto UpdateVehicleDTO) Validate() error {
	if dto.Model != nil && *dto.Model == "" {
		return errors.New("model cannot be empty")
	}
	return nil
}
