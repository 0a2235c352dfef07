package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/workorder"
)

type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) workorder.RepositoryAPI {
	return &WorkOrderRepository{db: db}
}

func (r *WorkOrderRepository) Create(wo *workorder.WorkOrder) error {
	return r.db.Create(wo).Error
}

func (r *WorkOrderRepository) GetByID(id int64) (*workorder.WorkOrder, error) {
	var wo workorder.WorkOrder
	err := r.db.Where("id = ?", id).First(&wo).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("work order not found", internal.ErrCodeWorkOrderNotFound)
		}
		return nil, err
	}
	return &wo, nil
}

func (r *WorkOrderRepository) List(filter workorder.ListFilter, limit, offset int) ([]*workorder.WorkOrder, int64, error) {
	var orders []*workorder.WorkOrder
	var total int64

	base := r.db.Model(&workorder.WorkOrder{})
	if filter.PlantID != nil {
		base = base.Where("plant_id = ?", *filter.PlantID)
	}
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.AssigneeID != nil {
		base = base.Where("assignee_id = ?", *filter.AssigneeID)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

func (r *WorkOrderRepository) Update(wo *workorder.WorkOrder) error {
	wo.UpdatedAt = time.Now()
	return r.db.Save(wo).Error
}
