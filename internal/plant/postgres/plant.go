package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/plant"
)

type PlantRepository struct {
	db *gorm.DB
}

func NewPlantRepository(db *gorm.DB) plant.RepositoryAPI {
	return &PlantRepository{db: db}
}

func (r *PlantRepository) Create(p *plant.Plant) error {
	return r.db.Create(p).Error
}

func (r *PlantRepository) GetByID(id int64) (*plant.Plant, error) {
	var p plant.Plant
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("plant not found", internal.ErrCodePlantNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *PlantRepository) GetByCNPJ(cnpj string) (*plant.Plant, error) {
	var p plant.Plant
	err := r.db.Where("cnpj = ?", cnpj).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PlantRepository) List(limit, offset int) ([]*plant.Plant, int64, error) {
	var plants []*plant.Plant
	var total int64

	base := r.db.Model(&plant.Plant{}).Where("deleted_at IS NULL")
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&plants).Error
	return plants, total, err
}

func (r *PlantRepository) Update(p *plant.Plant) error {
	p.UpdatedAt = time.Now()
	return r.db.Save(p).Error
}

func (r *PlantRepository) Deactivate(id int64, deletedAt time.Time) error {
	return r.db.Model(&plant.Plant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"deleted_at": deletedAt,
			"updated_at": time.Now(),
		}).Error
}
