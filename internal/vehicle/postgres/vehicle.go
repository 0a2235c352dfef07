package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/vehicle"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) vehicle.RepositoryAPI {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(v *vehicle.Vehicle) error {
	return r.db.Create(v).Error
}

func (r *VehicleRepository) GetByID(id int64) (*vehicle.Vehicle, error) {
	var v vehicle.Vehicle
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&v).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("vehicle not found", internal.ErrCodeVehicleNotFound)
		}
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepository) GetByPlate(plate string) (*vehicle.Vehicle, error) {
	var v vehicle.Vehicle
	err := r.db.Where("plate = ?", plate).First(&v).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepository) List(limit, offset int) ([]*vehicle.Vehicle, int64, error) {
	var vehicles []*vehicle.Vehicle
	var total int64

	base := r.db.Model(&vehicle.Vehicle{}).Where("deleted_at IS NULL")
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("plate ASC").
		Limit(limit).
		Offset(offset).
		Find(&vehicles).Error
	return vehicles, total, err
}

func (r *VehicleRepository) Update(v *vehicle.Vehicle) error {
	v.UpdatedAt = time.Now()
	return r.db.Save(v).Error
}

func (r *VehicleRepository) Deactivate(id int64, deletedAt time.Time) error {
	return r.db.Model(&vehicle.Vehicle{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":    false,
			"is_available": false,
			"deleted_at":   deletedAt,
			"updated_at":   time.Now(),
		}).Error
}
