package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/calendar"
)

type CalendarRepository struct {
	db *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) calendar.RepositoryAPI {
	return &CalendarRepository{db: db}
}

// CreateHoliday writes the holiday and its plant associations in one
// transaction.
func (r *CalendarRepository) CreateHoliday(h *calendar.Holiday) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(h).Error; err != nil {
			return err
		}
		return replaceHolidayPlants(tx, h.ID, h.PlantIDs)
	})
}

func (r *CalendarRepository) GetHolidayByID(id int64) (*calendar.Holiday, error) {
	var h calendar.Holiday
	err := r.db.Where("id = ?", id).First(&h).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("holiday not found", internal.ErrCodeHolidayNotFound)
		}
		return nil, err
	}
	if err := r.loadHolidayPlants(&h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *CalendarRepository) ListHolidays(limit, offset int) ([]*calendar.Holiday, int64, error) {
	var holidays []*calendar.Holiday
	var total int64

	base := r.db.Model(&calendar.Holiday{}).Where("active = ?", true)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("date ASC").
		Limit(limit).
		Offset(offset).
		Find(&holidays).Error
	if err != nil {
		return nil, 0, err
	}

	for _, h := range holidays {
		if err := r.loadHolidayPlants(h); err != nil {
			return nil, 0, err
		}
	}
	return holidays, total, nil
}

// UpdateHoliday saves the row and rewrites the plant associations.
func (r *CalendarRepository) UpdateHoliday(h *calendar.Holiday) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(h).Error; err != nil {
			return err
		}
		return replaceHolidayPlants(tx, h.ID, h.PlantIDs)
	})
}

func (r *CalendarRepository) DeactivateHoliday(id int64) error {
	return r.db.Model(&calendar.Holiday{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now(),
		}).Error
}

// FindActiveHolidaysOnDate returns every active holiday falling on the
// date, with plant associations loaded so callers can compare scope.
// Recurring matching happens in Go, so the query stays portable.
func (r *CalendarRepository) FindActiveHolidaysOnDate(date time.Time) ([]*calendar.Holiday, error) {
	var holidays []*calendar.Holiday
	err := r.db.Where("active = ?", true).Find(&holidays).Error
	if err != nil {
		return nil, err
	}
	var matches []*calendar.Holiday
	for _, h := range holidays {
		if !h.MatchesDate(date) {
			continue
		}
		if err := r.loadHolidayPlants(h); err != nil {
			return nil, err
		}
		matches = append(matches, h)
	}
	return matches, nil
}

// HolidaysForScope loads the active holidays visible to a plant:
// general ones plus the plant's own associations. Recurring matching
// happens in the domain layer, so the query stays portable.
func (r *CalendarRepository) HolidaysForScope(plantID *int64) ([]*calendar.Holiday, error) {
	var holidays []*calendar.Holiday

	q := r.db.Where("active = ?", true)
	if plantID != nil {
		q = q.Where("general = ? OR id IN (?)", true,
			r.db.Model(&calendar.HolidayPlant{}).Select("holiday_id").Where("plant_id = ?", *plantID))
	} else {
		q = q.Where("general = ?", true)
	}

	err := q.Order("date ASC").Find(&holidays).Error
	return holidays, err
}

func (r *CalendarRepository) CreateConfig(c *calendar.WorkdayConfig) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return replaceConfigPlants(tx, c.ID, c.PlantIDs)
	})
}

func (r *CalendarRepository) GetConfigByID(id int64) (*calendar.WorkdayConfig, error) {
	var c calendar.WorkdayConfig
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("workday config not found", internal.ErrCodeConfigNotFound)
		}
		return nil, err
	}
	if err := r.loadConfigPlants(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CalendarRepository) ListConfigs(limit, offset int) ([]*calendar.WorkdayConfig, int64, error) {
	var configs []*calendar.WorkdayConfig
	var total int64

	base := r.db.Model(&calendar.WorkdayConfig{}).Where("active = ?", true)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&configs).Error
	if err != nil {
		return nil, 0, err
	}

	for _, c := range configs {
		if err := r.loadConfigPlants(c); err != nil {
			return nil, 0, err
		}
	}
	return configs, total, nil
}

func (r *CalendarRepository) UpdateConfig(c *calendar.WorkdayConfig) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(c).Error; err != nil {
			return err
		}
		return replaceConfigPlants(tx, c.ID, c.PlantIDs)
	})
}

func (r *CalendarRepository) DeactivateConfig(id int64) error {
	return r.db.Model(&calendar.WorkdayConfig{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now(),
		}).Error
}

// ConfigForScope picks the effective config: the newest active
// plant-scoped one when plantID is set, falling back to the newest
// active general one, falling back to nil.
func (r *CalendarRepository) ConfigForScope(plantID *int64) (*calendar.WorkdayConfig, error) {
	if plantID != nil {
		var c calendar.WorkdayConfig
		err := r.db.
			Where("active = ? AND general = ?", true, false).
			Where("id IN (?)",
				r.db.Model(&calendar.WorkdayConfigPlant{}).Select("config_id").Where("plant_id = ?", *plantID)).
			Order("id DESC").
			First(&c).Error
		if err == nil {
			return &c, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	var c calendar.WorkdayConfig
	err := r.db.
		Where("active = ? AND general = ?", true, true).
		Order("id DESC").
		First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CalendarRepository) loadHolidayPlants(h *calendar.Holiday) error {
	if h.General {
		return nil
	}
	var ids []int64
	err := r.db.Model(&calendar.HolidayPlant{}).
		Where("holiday_id = ?", h.ID).
		Pluck("plant_id", &ids).Error
	if err != nil {
		return err
	}
	h.PlantIDs = ids
	return nil
}

func (r *CalendarRepository) loadConfigPlants(c *calendar.WorkdayConfig) error {
	if c.General {
		return nil
	}
	var ids []int64
	err := r.db.Model(&calendar.WorkdayConfigPlant{}).
		Where("config_id = ?", c.ID).
		Pluck("plant_id", &ids).Error
	if err != nil {
		return err
	}
	c.PlantIDs = ids
	return nil
}

func replaceHolidayPlants(tx *gorm.DB, holidayID int64, plantIDs []int64) error {
	if err := tx.Where("holiday_id = ?", holidayID).Delete(&calendar.HolidayPlant{}).Error; err != nil {
		return err
	}
	for _, pid := range plantIDs {
		link := calendar.HolidayPlant{HolidayID: holidayID, PlantID: pid}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func replaceConfigPlants(tx *gorm.DB, configID int64, plantIDs []int64) error {
	if err := tx.Where("config_id = ?", configID).Delete(&calendar.WorkdayConfigPlant{}).Error; err != nil {
		return err
	}
	for _, pid := range plantIDs {
		link := calendar.WorkdayConfigPlant{ConfigID: configID, PlantID: pid}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}
