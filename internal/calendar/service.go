package calendar

import (
	"log/slog"
	"time"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/plant"
)

// walkCapFactor bounds business-day walks at n*10 scanned days, so a
// config with no business weekdays and wall-to-wall holidays cannot
// spin forever. Hitting the cap yields a partial result with the
// Truncated flag set.
const walkCapFactor = 10

// RepositoryAPI is the data access contract. Holiday and config writes
// that touch plant associations run in a transaction.
type RepositoryAPI interface {
	CreateHoliday(h *Holiday) error
	GetHolidayByID(id int64) (*Holiday, error)
	ListHolidays(limit, offset int) ([]*Holiday, int64, error)
	UpdateHoliday(h *Holiday) error
	DeactivateHoliday(id int64) error

	// FindActiveHolidaysOnDate returns every active holiday falling on
	// the date, plant associations loaded.
	FindActiveHolidaysOnDate(date time.Time) ([]*Holiday, error)

	// HolidaysForScope returns active holidays visible to the given
	// plant: general ones plus the plant's own. A nil plantID means
	// general holidays only.
	HolidaysForScope(plantID *int64) ([]*Holiday, error)

	CreateConfig(c *WorkdayConfig) error
	GetConfigByID(id int64) (*WorkdayConfig, error)
	ListConfigs(limit, offset int) ([]*WorkdayConfig, int64, error)
	UpdateConfig(c *WorkdayConfig) error
	DeactivateConfig(id int64) error

	// ConfigForScope resolves the effective workday config: the active
	// plant-scoped one when plantID is set and one exists, otherwise the
	// active general one, otherwise nil.
	ConfigForScope(plantID *int64) (*WorkdayConfig, error)
}

// PlantGetter verifies plant IDs before associating them.
type PlantGetter interface {
	GetByID(id int64) (*plant.Plant, error)
}

type Service struct {
	repo   RepositoryAPI
	plants PlantGetter
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, plants PlantGetter, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		plants: plants,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) checkPlants(ids []int64) error {
	for _, id := range ids {
		if _, err := s.plants.GetByID(id); err != nil {
			return internal.NewNotFoundError("plant not found", internal.ErrCodePlantNotFound)
		}
	}
	return nil
}

// CreateHoliday registers a holiday. Two active holidays cannot share
// the same date and scope.
func (s *Service) CreateHoliday(dto CreateHolidayDTO) (*Holiday, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	date, _ := ParseDate(dto.Date)

	general := true
	if dto.General != nil {
		general = *dto.General
	}
	if general {
		dto.PlantIDs = nil
	} else if err := s.checkPlants(dto.PlantIDs); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindActiveHolidaysOnDate(date)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.SharesScope(general, dto.PlantIDs) {
			return nil, internal.NewConflictError("a holiday already exists on this date for this scope", internal.ErrCodeDuplicateHoliday)
		}
	}

	kind := dto.Kind
	if kind == "" {
		kind = KindNational
	}

	h := &Holiday{
		Name:      dto.Name,
		Date:      date,
		Kind:      kind,
		General:   general,
		Recurring: dto.Recurring,
		Active:    true,
		PlantIDs:  dto.PlantIDs,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}

	if err := s.repo.CreateHoliday(h); err != nil {
		s.logger.Error("failed to create holiday", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("holiday created", "holiday_id", h.ID, "name", h.Name, "date", dto.Date)
	return h, nil
}

func (s *Service) GetHoliday(id int64) (*Holiday, error) {
	return s.repo.GetHolidayByID(id)
}

func (s *Service) ListHolidays(limit, offset int) ([]*Holiday, int64, error) {
	return s.repo.ListHolidays(limit, offset)
}

func (s *Service) UpdateHoliday(id int64, dto UpdateHolidayDTO) (*Holiday, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	h, err := s.repo.GetHolidayByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		h.Name = *dto.Name
	}
	if dto.Date != nil {
		h.Date, _ = ParseDate(*dto.Date)
	}
	if dto.Kind != nil {
		h.Kind = *dto.Kind
	}
	if dto.Recurring != nil {
		h.Recurring = *dto.Recurring
	}
	if dto.General != nil {
		h.General = *dto.General
	}
	if dto.PlantIDs != nil {
		if err := s.checkPlants(dto.PlantIDs); err != nil {
			return nil, err
		}
		h.PlantIDs = dto.PlantIDs
	}
	if h.General {
		h.PlantIDs = nil
	} else if len(h.PlantIDs) == 0 {
		return nil, internal.NewValidationError("a non-general holiday requires at least one plant", internal.ErrCodeValidationFailed)
	}
	h.UpdatedAt = s.now()

	if err := s.repo.UpdateHoliday(h); err != nil {
		s.logger.Error("failed to update holiday", "error", err, "holiday_id", id)
		return nil, err
	}
	return h, nil
}

func (s *Service) DeactivateHoliday(id int64) error {
	if _, err := s.repo.GetHolidayByID(id); err != nil {
		return err
	}
	if err := s.repo.DeactivateHoliday(id); err != nil {
		s.logger.Error("failed to deactivate holiday", "error", err, "holiday_id", id)
		return err
	}
	s.logger.Info("holiday deactivated", "holiday_id", id)
	return nil
}

// CreateConfig registers a workday config.
func (s *Service) CreateConfig(dto CreateWorkdayConfigDTO) (*WorkdayConfig, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	general := true
	if dto.General != nil {
		general = *dto.General
	}
	if general {
		dto.PlantIDs = nil
	} else if err := s.checkPlants(dto.PlantIDs); err != nil {
		return nil, err
	}

	c := &WorkdayConfig{
		Name:      dto.Name,
		Monday:    dto.Monday,
		Tuesday:   dto.Tuesday,
		Wednesday: dto.Wednesday,
		Thursday:  dto.Thursday,
		Friday:    dto.Friday,
		Saturday:  dto.Saturday,
		Sunday:    dto.Sunday,
		General:   general,
		Active:    true,
		PlantIDs:  dto.PlantIDs,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}

	if err := s.repo.CreateConfig(c); err != nil {
		s.logger.Error("failed to create workday config", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("workday config created", "config_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *Service) GetConfig(id int64) (*WorkdayConfig, error) {
	return s.repo.GetConfigByID(id)
}

func (s *Service) ListConfigs(limit, offset int) ([]*WorkdayConfig, int64, error) {
	return s.repo.ListConfigs(limit, offset)
}

func (s *Service) UpdateConfig(id int64, dto UpdateWorkdayConfigDTO) (*WorkdayConfig, error) {
	c, err := s.repo.GetConfigByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		if *dto.Name == "" {
			return nil, internal.NewValidationError("name must not be empty", internal.ErrCodeValidationFailed)
		}
		c.Name = *dto.Name
	}
	if dto.Monday != nil {
		c.Monday = *dto.Monday
	}
	if dto.Tuesday != nil {
		c.Tuesday = *dto.Tuesday
	}
	if dto.Wednesday != nil {
		c.Wednesday = *dto.Wednesday
	}
	if dto.Thursday != nil {
		c.Thursday = *dto.Thursday
	}
	if dto.Friday != nil {
		c.Friday = *dto.Friday
	}
	if dto.Saturday != nil {
		c.Saturday = *dto.Saturday
	}
	if dto.Sunday != nil {
		c.Sunday = *dto.Sunday
	}
	if dto.General != nil {
		c.General = *dto.General
	}
	if dto.PlantIDs != nil {
		if err := s.checkPlants(dto.PlantIDs); err != nil {
			return nil, err
		}
		c.PlantIDs = dto.PlantIDs
	}

	if !c.Monday && !c.Tuesday && !c.Wednesday && !c.Thursday &&
		!c.Friday && !c.Saturday && !c.Sunday {
		return nil, internal.NewValidationError("at least one weekday must be a business day", internal.ErrCodeValidationFailed)
	}
	if c.General {
		c.PlantIDs = nil
	} else if len(c.PlantIDs) == 0 {
		return nil, internal.NewValidationError("a non-general config requires at least one plant", internal.ErrCodeValidationFailed)
	}
	c.UpdatedAt = s.now()

	if err := s.repo.UpdateConfig(c); err != nil {
		s.logger.Error("failed to update workday config", "error", err, "config_id", id)
		return nil, err
	}
	return c, nil
}

func (s *Service) DeactivateConfig(id int64) error {
	if _, err := s.repo.GetConfigByID(id); err != nil {
		return err
	}
	if err := s.repo.DeactivateConfig(id); err != nil {
		s.logger.Error("failed to deactivate workday config", "error", err, "config_id", id)
		return err
	}
	s.logger.Info("workday config deactivated", "config_id", id)
	return nil
}

// scope holds the resolved calendar inputs for one plant (or the
// general view), fetched once per request so day walks stay in memory.
type scope struct {
	holidays []*Holiday
	config   *WorkdayConfig
}

func (s *Service) resolveScope(plantID *int64) (*scope, error) {
	holidays, err := s.repo.HolidaysForScope(plantID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.repo.ConfigForScope(plantID)
	if err != nil {
		return nil, err
	}
	return &scope{holidays: holidays, config: cfg}, nil
}

// classify decides whether a single day is a business day: a matching
// holiday wins, then the weekday flags of the effective config (or the
// Monday-Friday default when no config is active).
func (sc *scope) classify(date time.Time) DayInfo {
	info := DayInfo{
		Date:    date.Format(dateLayout),
		Weekday: WeekdayName(date.Weekday()),
	}

	for _, h := range sc.holidays {
		if h.MatchesDate(date) {
			info.IsHoliday = true
			info.HolidayName = h.Name
			break
		}
	}

	workable := date.Weekday() != time.Saturday && date.Weekday() != time.Sunday
	if sc.config != nil {
		workable = sc.config.AllowsWeekday(date.Weekday())
		info.ConfigID = &sc.config.ID
	}

	info.IsBusinessDay = workable && !info.IsHoliday
	return info
}

// IsBusinessDay classifies a single date, optionally from a plant's
// point of view.
func (s *Service) IsBusinessDay(date string, plantID *int64) (*DayInfo, error) {
	d, err := ParseDate(date)
	if err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	sc, err := s.resolveScope(plantID)
	if err != nil {
		return nil, err
	}
	info := sc.classify(d)
	return &info, nil
}

// NextBusinessDays walks forward from the day after start collecting n
// business days. The walk scans at most n*walkCapFactor calendar days;
// if the cap is hit first, the partial list comes back with Truncated
// set rather than an error.
func (s *Service) NextBusinessDays(n int, start string, plantID *int64) (*BusinessDaysResult, error) {
	if n <= 0 {
		return nil, internal.NewValidationError("count must be a positive integer", internal.ErrCodeValidationFailed)
	}

	from := atMidnight(s.now())
	if start != "" {
		d, err := ParseDate(start)
		if err != nil {
			return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
		}
		from = d
	}

	sc, err := s.resolveScope(plantID)
	if err != nil {
		return nil, err
	}

	result := &BusinessDaysResult{Days: make([]DayInfo, 0, n)}
	cursor := from
	for i := 0; i < n*walkCapFactor; i++ {
		cursor = cursor.AddDate(0, 0, 1)
		info := sc.classify(cursor)
		if info.IsBusinessDay {
			result.Days = append(result.Days, info)
			if len(result.Days) == n {
				return result, nil
			}
		}
	}

	result.Truncated = true
	s.logger.Warn("business-day walk hit iteration cap",
		"requested", n,
		"found", len(result.Days),
		"scanned_days", n*walkCapFactor)
	return result, nil
}

// CountBusinessDaysBetween counts business days in the inclusive range
// [start, end].
func (s *Service) CountBusinessDaysBetween(start, end string, plantID *int64) (int, error) {
	from, err := ParseDate(start)
	if err != nil {
		return 0, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	to, err := ParseDate(end)
	if err != nil {
		return 0, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	if to.Before(from) {
		return 0, internal.NewValidationError("end date must not precede start date", internal.ErrCodeInvalidDateRange)
	}

	sc, err := s.resolveScope(plantID)
	if err != nil {
		return 0, err
	}

	count := 0
	for cursor := from; !cursor.After(to); cursor = cursor.AddDate(0, 0, 1) {
		if sc.classify(cursor).IsBusinessDay {
			count++
		}
	}
	return count, nil
}

// AddBusinessDays lands on the n-th business day strictly after start.
// The walk obeys the same cap as NextBusinessDays.
func (s *Service) AddBusinessDays(start string, n int, plantID *int64) (*DayInfo, error) {
	result, err := s.NextBusinessDays(n, start, plantID)
	if err != nil {
		return nil, err
	}
	if len(result.Days) < n {
		return nil, internal.NewValidationError("not enough business days within the scan window", internal.ErrCodeValidationFailed)
	}
	return &result.Days[n-1], nil
}

// MonthCalendar classifies every day of a month.
func (s *Service) MonthCalendar(year, month int, plantID *int64) ([]DayInfo, error) {
	if month < 1 || month > 12 {
		return nil, internal.NewValidationError("month must be between 1 and 12", internal.ErrCodeValidationFailed)
	}
	if year < 1900 || year > 2200 {
		return nil, internal.NewValidationError("year is out of range", internal.ErrCodeValidationFailed)
	}

	sc, err := s.resolveScope(plantID)
	if err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	days := make([]DayInfo, 0, 31)
	for cursor := first; cursor.Before(next); cursor = cursor.AddDate(0, 0, 1) {
		days = append(days, sc.classify(cursor))
	}
	return days, nil
}
