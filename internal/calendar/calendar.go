package calendar

import (
	"time"
)

// Holiday kinds mirror the Brazilian civil calendar plus ad-hoc company dates.
const (
	KindNational  = "national"
	KindState     = "state"
	KindMunicipal = "municipal"
	KindCustom    = "custom"
)

// Holiday marks a date as non-business. General holidays apply to every
// plant; otherwise the holiday applies only to its associated plants.
// Recurring holidays match on day and month across years. Rows are never
// hard-deleted; Active flips instead.
type Holiday struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Date      time.Time `json:"date" gorm:"type:date;not null"`
	Kind      string    `json:"kind" gorm:"default:national"`
	General   bool      `json:"general" gorm:"default:true"`
	Recurring bool      `json:"recurring" gorm:"default:false"`
	Active    bool      `json:"active" gorm:"default:true"`
	PlantIDs  []int64   `json:"plant_ids,omitempty" gorm:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Holiday) TableName() string {
	return "holidays"
}

// MatchesDate reports whether the holiday falls on the given day.
func (h *Holiday) MatchesDate(d time.Time) bool {
	if h.Recurring {
		return h.Date.Day() == d.Day() && h.Date.Month() == d.Month()
	}
	return h.Date.Day() == d.Day() && h.Date.Month() == d.Month() && h.Date.Year() == d.Year()
}

// SharesScope reports whether the holiday covers the same scope as a
// candidate: both general, or both plant-scoped with a plant in common.
func (h *Holiday) SharesScope(general bool, plantIDs []int64) bool {
	if h.General || general {
		return h.General && general
	}
	for _, a := range h.PlantIDs {
		for _, b := range plantIDs {
			if a == b {
				return true
			}
		}
	}
	return false
}

// HolidayPlant associates a non-general holiday with a plant.
type HolidayPlant struct {
	ID        int64 `gorm:"primaryKey"`
	HolidayID int64 `gorm:"column:holiday_id;not null"`
	PlantID   int64 `gorm:"column:plant_id;not null"`
}

func (HolidayPlant) TableName() string {
	return "holiday_plants"
}

// WorkdayConfig flags which weekdays count as business days. A
// plant-scoped active config overrides the general one; with neither,
// Monday through Friday is assumed.
type WorkdayConfig struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Monday    bool      `json:"monday" gorm:"default:true"`
	Tuesday   bool      `json:"tuesday" gorm:"default:true"`
	Wednesday bool      `json:"wednesday" gorm:"default:true"`
	Thursday  bool      `json:"thursday" gorm:"default:true"`
	Friday    bool      `json:"friday" gorm:"default:true"`
	Saturday  bool      `json:"saturday" gorm:"default:false"`
	Sunday    bool      `json:"sunday" gorm:"default:false"`
	General   bool      `json:"general" gorm:"default:true"`
	Active    bool      `json:"active" gorm:"default:true"`
	PlantIDs  []int64   `json:"plant_ids,omitempty" gorm:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (WorkdayConfig) TableName() string {
	return "workday_configs"
}

// AllowsWeekday reads the flag for a weekday.
func (c *WorkdayConfig) AllowsWeekday(wd time.Weekday) bool {
	switch wd {
	case time.Monday:
		return c.Monday
	case time.Tuesday:
		return c.Tuesday
	case time.Wednesday:
		return c.Wednesday
	case time.Thursday:
		return c.Thursday
	case time.Friday:
		return c.Friday
	case time.Saturday:
		return c.Saturday
	default:
		return c.Sunday
	}
}

// WorkdayConfigPlant associates a non-general config with a plant.
type WorkdayConfigPlant struct {
	ID       int64 `gorm:"primaryKey"`
	ConfigID int64 `gorm:"column:config_id;not null"`
	PlantID  int64 `gorm:"column:plant_id;not null"`
}

func (WorkdayConfigPlant) TableName() string {
	return "workday_config_plants"
}

// weekdayNames holds the pt-BR names served by the API.
var weekdayNames = [...]string{
	time.Sunday:    "domingo",
	time.Monday:    "segunda-feira",
	time.Tuesday:   "terça-feira",
	time.Wednesday: "quarta-feira",
	time.Thursday:  "quinta-feira",
	time.Friday:    "sexta-feira",
	time.Saturday:  "sábado",
}

// WeekdayName returns the pt-BR name of the weekday.
func WeekdayName(wd time.Weekday) string {
	return weekdayNames[wd]
}

// DayInfo is the classification of a single calendar day.
type DayInfo struct {
	Date          string `json:"date"`
	Weekday       string `json:"weekday"`
	IsHoliday     bool   `json:"is_holiday"`
	HolidayName   string `json:"holiday_name,omitempty"`
	IsBusinessDay bool   `json:"is_business_day"`
	ConfigID      *int64 `json:"config_id,omitempty"`
}

// BusinessDaysResult is the outcome of a bounded business-day walk.
// Truncated is set when the iteration cap stopped the walk before the
// requested count was reached.
type BusinessDaysResult struct {
	Days      []DayInfo `json:"days"`
	Truncated bool      `json:"truncated"`
}

const dateLayout = "2006-01-02"

// atMidnight truncates a timestamp to its calendar day.
func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
