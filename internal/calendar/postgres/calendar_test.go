package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/calendar"
	calendarPostgres "github.com/upenergia/asset-management/internal/calendar/postgres"
)

func TestCalendarRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Calendar Repository Suite")
}

var _ = Describe("Calendar PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo calendar.RepositoryAPI
	)

	day := func(year int, month time.Month, d int) time.Time {
		return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	}

	BeforeEach(func() {
		var err error
		// SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&calendar.Holiday{},
			&calendar.HolidayPlant{},
			&calendar.WorkdayConfig{},
			&calendar.WorkdayConfigPlant{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = calendarPostgres.NewCalendarRepository(db)
	})

	Describe("Holidays", func() {
		It("should create a holiday and read it back with plant links", func() {
			h := &calendar.Holiday{
				Name:     "Padroeira da Cidade",
				Date:     day(2026, time.August, 15),
				Kind:     calendar.KindMunicipal,
				General:  false,
				Active:   true,
				PlantIDs: []int64{1, 2},
			}
			Expect(repo.CreateHoliday(h)).To(Succeed())
			Expect(h.ID).To(BeNumerically(">", 0))

			loaded, err := repo.GetHolidayByID(h.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Name).To(Equal("Padroeira da Cidade"))
			Expect(loaded.PlantIDs).To(ConsistOf(int64(1), int64(2)))
		})

		It("should return NotFound for a missing holiday", func() {
			_, err := repo.GetHolidayByID(42)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
			Expect(appErr.Code).To(Equal(internal.ErrCodeHolidayNotFound))
		})

		It("should rewrite plant links on update", func() {
			h := &calendar.Holiday{
				Name:     "Aniversário da Usina",
				Date:     day(2026, time.March, 3),
				Kind:     calendar.KindCustom,
				General:  false,
				Active:   true,
				PlantIDs: []int64{1},
			}
			Expect(repo.CreateHoliday(h)).To(Succeed())

			h.PlantIDs = []int64{2, 3}
			Expect(repo.UpdateHoliday(h)).To(Succeed())

			loaded, err := repo.GetHolidayByID(h.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.PlantIDs).To(ConsistOf(int64(2), int64(3)))
		})

		It("should hide deactivated holidays from listings", func() {
			h := &calendar.Holiday{Name: "Natal", Date: day(2026, time.December, 25), General: true, Active: true}
			Expect(repo.CreateHoliday(h)).To(Succeed())
			Expect(repo.DeactivateHoliday(h.ID)).To(Succeed())

			_, total, err := repo.ListHolidays(10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(0)))
		})

		It("should match recurring holidays across years", func() {
			h := &calendar.Holiday{
				Name:      "Natal",
				Date:      day(2020, time.December, 25),
				General:   true,
				Recurring: true,
				Active:    true,
			}
			Expect(repo.CreateHoliday(h)).To(Succeed())

			found, err := repo.FindActiveHolidaysOnDate(day(2026, time.December, 25))
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
			Expect(found[0].Name).To(Equal("Natal"))

			found, err = repo.FindActiveHolidaysOnDate(day(2026, time.December, 24))
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeEmpty())
		})
	})

	Describe("HolidaysForScope", func() {
		BeforeEach(func() {
			Expect(repo.CreateHoliday(&calendar.Holiday{
				Name: "Tiradentes", Date: day(2026, time.April, 21), General: true, Active: true,
			})).To(Succeed())
			Expect(repo.CreateHoliday(&calendar.Holiday{
				Name: "Padroeira", Date: day(2026, time.August, 15), General: false, Active: true, PlantIDs: []int64{1},
			})).To(Succeed())
			Expect(repo.CreateHoliday(&calendar.Holiday{
				Name: "Feriado Inativo", Date: day(2026, time.May, 5), General: true, Active: false,
			})).To(Succeed())
		})

		It("should return only general holidays without a plant", func() {
			holidays, err := repo.HolidaysForScope(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(holidays).To(HaveLen(1))
			Expect(holidays[0].Name).To(Equal("Tiradentes"))
		})

		It("should include plant-associated holidays for that plant", func() {
			plantID := int64(1)
			holidays, err := repo.HolidaysForScope(&plantID)
			Expect(err).NotTo(HaveOccurred())
			Expect(holidays).To(HaveLen(2))
		})

		It("should not leak another plant's holidays", func() {
			plantID := int64(2)
			holidays, err := repo.HolidaysForScope(&plantID)
			Expect(err).NotTo(HaveOccurred())
			Expect(holidays).To(HaveLen(1))
			Expect(holidays[0].Name).To(Equal("Tiradentes"))
		})
	})

	Describe("ConfigForScope", func() {
		weekdays := calendar.WorkdayConfig{
			Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true,
		}

		It("should return nil with no configs at all", func() {
			c, err := repo.ConfigForScope(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(BeNil())
		})

		It("should fall back to the general config", func() {
			general := weekdays
			general.Name = "Padrão Seg-Sex"
			general.General = true
			general.Active = true
			Expect(repo.CreateConfig(&general)).To(Succeed())

			plantID := int64(1)
			c, err := repo.ConfigForScope(&plantID)
			Expect(err).NotTo(HaveOccurred())
			Expect(c).NotTo(BeNil())
			Expect(c.Name).To(Equal("Padrão Seg-Sex"))
		})

		It("should prefer the plant-scoped config over the general one", func() {
			general := weekdays
			general.Name = "Padrão Seg-Sex"
			general.General = true
			general.Active = true
			Expect(repo.CreateConfig(&general)).To(Succeed())

			scoped := weekdays
			scoped.Name = "Usina Seg-Sáb"
			scoped.Saturday = true
			scoped.General = false
			scoped.Active = true
			scoped.PlantIDs = []int64{1}
			Expect(repo.CreateConfig(&scoped)).To(Succeed())

			plantID := int64(1)
			c, err := repo.ConfigForScope(&plantID)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Name).To(Equal("Usina Seg-Sáb"))
			Expect(c.Saturday).To(BeTrue())

			otherID := int64(2)
			c, err = repo.ConfigForScope(&otherID)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Name).To(Equal("Padrão Seg-Sex"))
		})

		It("should skip deactivated scoped configs", func() {
			scoped := weekdays
			scoped.Name = "Config Antiga"
			scoped.General = false
			scoped.Active = true
			scoped.PlantIDs = []int64{1}
			Expect(repo.CreateConfig(&scoped)).To(Succeed())
			Expect(repo.DeactivateConfig(scoped.ID)).To(Succeed())

			plantID := int64(1)
			c, err := repo.ConfigForScope(&plantID)
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(BeNil())
		})
	})
})
