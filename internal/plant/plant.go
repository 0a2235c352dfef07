package plant

import (
	"errors"
	"time"
)

// Plant is a physical facility owning equipment and vehicles.
type Plant struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"not null"`
	CNPJ      string     `json:"cnpj" gorm:"uniqueIndex;not null"`
	Address   string     `json:"address"`
	City      string     `json:"city"`
	State     string     `json:"state"`
	IsActive  bool       `json:"is_active" gorm:"column:is_active;default:true"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"column:deleted_at"`
	CreatedAt time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Plant) TableName() string {
	return "plants"
}

// CreatePlantDTO is the payload for registering a facility.
type CreatePlantDTO struct {
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
}

func (dto CreatePlantDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if len(dto.CNPJ) != 14 {
		return errors.New("cnpj must have 14 digits")
	}
	return nil
}

type UpdatePlantDTO struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
}

func (dto UpdatePlantDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return errors.New("name cannot be empty")
	}
	return nil
}
