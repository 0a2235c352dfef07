package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/equipment"
)

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) equipment.RepositoryAPI {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) Create(e *equipment.Equipment) error {
	return r.db.Create(e).Error
}

func (r *EquipmentRepository) GetByID(id int64) (*equipment.Equipment, error) {
	var e equipment.Equipment
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("equipment not found", internal.ErrCodeEquipmentNotFound)
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) List(plantID *int64, limit, offset int) ([]*equipment.Equipment, int64, error) {
	var items []*equipment.Equipment
	var total int64

	base := r.db.Model(&equipment.Equipment{}).Where("deleted_at IS NULL")
	if plantID != nil {
		base = base.Where("plant_id = ?", *plantID)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, total, err
}

func (r *EquipmentRepository) Update(e *equipment.Equipment) error {
	e.UpdatedAt = time.Now()
	return r.db.Save(e).Error
}

func (r *EquipmentRepository) Deactivate(id int64, deletedAt time.Time) error {
	return r.db.Model(&equipment.Equipment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"deleted_at": deletedAt,
			"updated_at": time.Now(),
		}).Error
}
