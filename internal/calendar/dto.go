package calendar

import (
	"errors"
	"fmt"
	"time"
)

var validKinds = map[string]bool{
	KindNational:  true,
	KindState:     true,
	KindMunicipal: true,
	KindCustom:    true,
}

// CreateHolidayDTO registers a holiday. Date is a plain calendar day.
type CreateHolidayDTO struct {
	Name      string  `json:"name"`
	Date      string  `json:"date"`
	Kind      string  `json:"kind,omitempty"`
	General   *bool   `json:"general,omitempty"`
	Recurring bool    `json:"recurring,omitempty"`
	PlantIDs  []int64 `json:"plant_ids,omitempty"`
}

func (dto CreateHolidayDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if _, err := ParseDate(dto.Date); err != nil {
		return err
	}
	if dto.Kind != "" && !validKinds[dto.Kind] {
		return fmt.Errorf("kind must be one of national, state, municipal, custom")
	}
	if dto.General != nil && !*dto.General && len(dto.PlantIDs) == 0 {
		return errors.New("a non-general holiday requires at least one plant")
	}
	return nil
}

// UpdateHolidayDTO patches an existing holiday.
type UpdateHolidayDTO struct {
	Name      *string `json:"name,omitempty"`
	Date      *string `json:"date,omitempty"`
	Kind      *string `json:"kind,omitempty"`
	General   *bool   `json:"general,omitempty"`
	Recurring *bool   `json:"recurring,omitempty"`
	PlantIDs  []int64 `json:"plant_ids,omitempty"`
}

func (dto UpdateHolidayDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return errors.New("name must not be empty")
	}
	if dto.Date != nil {
		if _, err := ParseDate(*dto.Date); err != nil {
			return err
		}
	}
	if dto.Kind != nil && !validKinds[*dto.Kind] {
		return fmt.Errorf("kind must be one of national, state, municipal, custom")
	}
	return nil
}

// CreateWorkdayConfigDTO defines which weekdays count as business days.
type CreateWorkdayConfigDTO struct {
	Name      string  `json:"name"`
	Monday    bool    `json:"monday"`
	Tuesday   bool    `json:"tuesday"`
	Wednesday bool    `json:"wednesday"`
	Thursday  bool    `json:"thursday"`
	Friday    bool    `json:"friday"`
	Saturday  bool    `json:"saturday"`
	Sunday    bool    `json:"sunday"`
	General   *bool   `json:"general,omitempty"`
	PlantIDs  []int64 `json:"plant_ids,omitempty"`
}

func (dto CreateWorkdayConfigDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if !dto.Monday && !dto.Tuesday && !dto.Wednesday && !dto.Thursday &&
		!dto.Friday && !dto.Saturday && !dto.Sunday {
		return errors.New("at least one weekday must be a business day")
	}
	if dto.General != nil && !*dto.General && len(dto.PlantIDs) == 0 {
		return errors.New("a non-general config requires at least one plant")
	}
	return nil
}

// UpdateWorkdayConfigDTO patches an existing config.
type UpdateWorkdayConfigDTO struct {
	Name      *string `json:"name,omitempty"`
	Monday    *bool   `json:"monday,omitempty"`
	Tuesday   *bool   `json:"tuesday,omitempty"`
	Wednesday *bool   `json:"wednesday,omitempty"`
	Thursday  *bool   `json:"thursday,omitempty"`
	Friday    *bool   `json:"friday,omitempty"`
	Saturday  *bool   `json:"saturday,omitempty"`
	Sunday    *bool   `json:"sunday,omitempty"`
	General   *bool   `json:"general,omitempty"`
	PlantIDs  []int64 `json:"plant_ids,omitempty"`
}

// ParseDate reads a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format: %q", s)
	}
	return d, nil
}
