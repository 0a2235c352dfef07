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
	"github.com/upenergia/asset-management/internal/reservation"
	reservationPostgres "github.com/upenergia/asset-management/internal/reservation/postgres"
)

func TestReservationRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Reservation Repository Suite")
}

var _ = Describe("Reservation PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo reservation.RepositoryAPI
	)

	at := func(day, hour int) time.Time {
		return time.Date(2026, 6, day, hour, 0, 0, 0, time.UTC)
	}

	newReservation := func(vehicleID int64, start, end time.Time) *reservation.Reservation {
		return &reservation.Reservation{
			VehicleID:   vehicleID,
			RequesterID: 1,
			Purpose:     "viagem de teste",
			StartsAt:    start,
			EndsAt:      end,
			Status:      reservation.StatusActive,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
	}

	BeforeEach(func() {
		var err error
		// SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&reservation.Reservation{})
		Expect(err).NotTo(HaveOccurred())

		repo = reservationPostgres.NewReservationRepository(db)
	})

	Describe("Create", func() {
		It("should insert a reservation", func() {
			res := newReservation(1, at(11, 8), at(11, 12))
			err := repo.Create(res)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.ID).To(BeNumerically(">", 0))
		})

		It("should reject an overlapping active window with Conflict", func() {
			Expect(repo.Create(newReservation(1, at(11, 8), at(11, 12)))).To(Succeed())

			err := repo.Create(newReservation(1, at(11, 10), at(11, 14)))
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
			Expect(appErr.Code).To(Equal(internal.ErrCodeReservationConflict))
		})

		It("should accept boundary-touching windows", func() {
			Expect(repo.Create(newReservation(1, at(11, 8), at(11, 12)))).To(Succeed())
			Expect(repo.Create(newReservation(1, at(11, 12), at(11, 16)))).To(Succeed())
		})

		It("should not conflict across vehicles", func() {
			Expect(repo.Create(newReservation(1, at(11, 8), at(11, 12)))).To(Succeed())
			Expect(repo.Create(newReservation(2, at(11, 8), at(11, 12)))).To(Succeed())
		})

		It("should ignore cancelled rows in the overlap check", func() {
			first := newReservation(1, at(11, 8), at(11, 12))
			Expect(repo.Create(first)).To(Succeed())

			err := repo.UpdateStatus(first.ID, map[string]interface{}{
				"status": reservation.StatusCancelled,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.Create(newReservation(1, at(11, 8), at(11, 12)))).To(Succeed())
		})
	})

	Describe("Update", func() {
		It("should exclude the reservation's own row from the check", func() {
			res := newReservation(1, at(11, 8), at(11, 12))
			Expect(repo.Create(res)).To(Succeed())

			res.EndsAt = at(11, 13)
			Expect(repo.Update(res)).To(Succeed())
		})

		It("should still conflict with other active rows", func() {
			first := newReservation(1, at(11, 8), at(11, 12))
			second := newReservation(1, at(11, 12), at(11, 16))
			Expect(repo.Create(first)).To(Succeed())
			Expect(repo.Create(second)).To(Succeed())

			second.StartsAt = at(11, 11)
			err := repo.Update(second)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})
	})

	Describe("GetByID", func() {
		It("should return NotFound for a missing id", func() {
			_, err := repo.GetByID(42)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			Expect(repo.Create(newReservation(1, at(11, 8), at(11, 12)))).To(Succeed())
			Expect(repo.Create(newReservation(2, at(11, 8), at(11, 12)))).To(Succeed())
			Expect(repo.Create(newReservation(1, at(12, 8), at(12, 12)))).To(Succeed())
		})

		It("should filter by vehicle", func() {
			vehicleID := int64(1)
			rows, total, err := repo.List(&vehicleID, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			Expect(rows).To(HaveLen(2))
		})

		It("should list everything without a filter", func() {
			_, total, err := repo.List(nil, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
		})
	})
})
