package reservation_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/reservation"
	"github.com/upenergia/asset-management/internal/vehicle"
)

func TestReservationService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Reservation Service Suite")
}

// Mock repository mirroring the transactional overlap check.
type mockReservationRepository struct {
	reservations map[int64]*reservation.Reservation
	nextID       int64
	createError  error
}

func newMockReservationRepository() *mockReservationRepository {
	return &mockReservationRepository{
		reservations: make(map[int64]*reservation.Reservation),
		nextID:       1,
	}
}

func (m *mockReservationRepository) conflicting(vehicleID int64, start, end time.Time, excludeID int64) *reservation.Reservation {
	for _, r := range m.reservations {
		if r.VehicleID != vehicleID || r.Status != reservation.StatusActive || r.ID == excludeID {
			continue
		}
		if reservation.Overlaps(r.StartsAt, r.EndsAt, start, end) {
			return r
		}
	}
	return nil
}

func (m *mockReservationRepository) Create(res *reservation.Reservation) error {
	if m.createError != nil {
		return m.createError
	}
	if c := m.conflicting(res.VehicleID, res.StartsAt, res.EndsAt, 0); c != nil {
		return internal.NewConflictError("vehicle already reserved", internal.ErrCodeReservationConflict)
	}
	res.ID = m.nextID
	m.nextID++
	m.reservations[res.ID] = res
	return nil
}

func (m *mockReservationRepository) Update(res *reservation.Reservation) error {
	if c := m.conflicting(res.VehicleID, res.StartsAt, res.EndsAt, res.ID); c != nil {
		return internal.NewConflictError("vehicle already reserved", internal.ErrCodeReservationConflict)
	}
	m.reservations[res.ID] = res
	return nil
}

func (m *mockReservationRepository) GetByID(id int64) (*reservation.Reservation, error) {
	r, ok := m.reservations[id]
	if !ok {
		return nil, internal.NewNotFoundError("reservation not found", internal.ErrCodeReservationNotFound)
	}
	return r, nil
}

func (m *mockReservationRepository) List(vehicleID *int64, limit, offset int) ([]*reservation.Reservation, int64, error) {
	var out []*reservation.Reservation
	for _, r := range m.reservations {
		if vehicleID == nil || r.VehicleID == *vehicleID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockReservationRepository) UpdateStatus(id int64, updates map[string]interface{}) error {
	r, ok := m.reservations[id]
	if !ok {
		return internal.NewNotFoundError("reservation not found", internal.ErrCodeReservationNotFound)
	}
	if status, ok := updates["status"].(string); ok {
		r.Status = status
	}
	return nil
}

type mockVehicleGetter struct {
	vehicles map[int64]*vehicle.Vehicle
}

func (m *mockVehicleGetter) GetByID(id int64) (*vehicle.Vehicle, error) {
	v, ok := m.vehicles[id]
	if !ok {
		return nil, internal.NewNotFoundError("vehicle not found", internal.ErrCodeVehicleNotFound)
	}
	return v, nil
}

var _ = Describe("ReservationService", func() {
	var (
		service  *reservation.Service
		mockRepo *mockReservationRepository
		vehicles *mockVehicleGetter
		logger   *slog.Logger
	)

	fixedNow := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	requesterID := int64(7)

	at := func(day, hour int) time.Time {
		return time.Date(2026, 6, day, hour, 0, 0, 0, time.UTC)
	}

	BeforeEach(func() {
		mockRepo = newMockReservationRepository()
		vehicles = &mockVehicleGetter{vehicles: map[int64]*vehicle.Vehicle{
			1: {ID: 1, Plate: "ABC1D23", IsAvailable: true, IsActive: true},
			2: {ID: 2, Plate: "DEF4G56", IsAvailable: false, IsActive: true},
		}}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = reservation.NewService(mockRepo, vehicles, logger).WithClock(func() time.Time { return fixedNow })
	})

	Describe("CreateReservation", func() {
		It("should book an available vehicle", func() {
			res, err := service.CreateReservation(requesterID, reservation.CreateReservationDTO{
				VehicleID: 1,
				Purpose:   "inspeção na usina",
				StartsAt:  at(11, 8),
				EndsAt:    at(11, 18),
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(res.ID).To(BeNumerically(">", 0))
			Expect(res.Status).To(Equal(reservation.StatusActive))
			Expect(res.RequesterID).To(Equal(requesterID))
		})

		It("should fail NotFound for an unknown vehicle", func() {
			_, err := service.CreateReservation(requesterID, reservation.CreateReservationDTO{
				VehicleID: 99,
				Purpose:   "inspeção",
				StartsAt:  at(11, 8),
				EndsAt:    at(11, 18),
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})

		It("should fail BadRequest for an unavailable vehicle", func() {
			_, err := service.CreateReservation(requesterID, reservation.CreateReservationDTO{
				VehicleID: 2,
				Purpose:   "inspeção",
				StartsAt:  at(11, 8),
				EndsAt:    at(11, 18),
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(appErr.Code).To(Equal(internal.ErrCodeVehicleUnavailable))
		})

		It("should fail BadRequest when the start is in the past", func() {
			_, err := service.CreateReservation(requesterID, reservation.CreateReservationDTO{
				VehicleID: 1,
				Purpose:   "inspeção",
				StartsAt:  at(9, 8), // day before the fixed clock
				EndsAt:    at(9, 18),
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDateInPast))
		})

		It("should fail BadRequest when end precedes start", func() {
			_, err := service.CreateReservation(requesterID, reservation.CreateReservationDTO{
				VehicleID: 1,
				Purpose:   "inspeção",
				StartsAt:  at(12, 18),
				EndsAt:    at(12, 8),
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		Context("overlap handling", func() {
			BeforeEach(func() {
				_, err := service.CreateReservation(requesterID, reservation.CreateReservationDTO{
					VehicleID: 1,
					Purpose:   "viagem",
					StartsAt:  at(11, 8),
					EndsAt:    at(11, 12),
				})
				Expect(err).ToNot(HaveOccurred())
			})

			It("should reject an overlapping window with Conflict", func() {
				_, err := service.CreateReservation(requesterID, reservation.CreateReservationDTO{
					VehicleID: 1,
					Purpose:   "outra viagem",
					StartsAt:  at(11, 10),
					EndsAt:    at(11, 14),
				})
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
			})

			It("should allow a boundary-touching window", func() {
				res, err := service.CreateReservation(requesterID, reservation.CreateReservationDTO{
					VehicleID: 1,
					Purpose:   "emenda",
					StartsAt:  at(11, 12), // starts exactly when the first ends
					EndsAt:    at(11, 16),
				})
				Expect(err).ToNot(HaveOccurred())
				Expect(res.ID).To(BeNumerically(">", 0))
			})

			It("should allow the same window on another vehicle", func() {
				vehicles.vehicles[3] = &vehicle.Vehicle{ID: 3, Plate: "GHI7J89", IsAvailable: true, IsActive: true}
				_, err := service.CreateReservation(requesterID, reservation.CreateReservationDTO{
					VehicleID: 3,
					Purpose:   "viagem paralela",
					StartsAt:  at(11, 8),
					EndsAt:    at(11, 12),
				})
				Expect(err).ToNot(HaveOccurred())
			})

			It("should ignore cancelled reservations in the overlap check", func() {
				_, err := service.CancelReservation(1, reservation.CancelReservationDTO{Motive: "desmarcado"})
				Expect(err).ToNot(HaveOccurred())

				_, err = service.CreateReservation(requesterID, reservation.CreateReservationDTO{
					VehicleID: 1,
					Purpose:   "reaproveitando a janela",
					StartsAt:  at(11, 8),
					EndsAt:    at(11, 12),
				})
				Expect(err).ToNot(HaveOccurred())
			})
		})
	})

	Describe("UpdateReservation", func() {
		var created *reservation.Reservation

		BeforeEach(func() {
			var err error
			created, err = service.CreateReservation(requesterID, reservation.CreateReservationDTO{
				VehicleID: 1,
				Purpose:   "viagem",
				StartsAt:  at(11, 8),
				EndsAt:    at(11, 12),
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should move the window without conflicting with itself", func() {
			newStart := at(11, 9)
			newEnd := at(11, 13)
			res, err := service.UpdateReservation(created.ID, reservation.UpdateReservationDTO{
				StartsAt: &newStart,
				EndsAt:   &newEnd,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(res.StartsAt).To(Equal(newStart))
		})

		It("should refuse updates on non-active reservations", func() {
			_, err := service.CancelReservation(created.ID, reservation.CancelReservationDTO{Motive: "desmarcado"})
			Expect(err).ToNot(HaveOccurred())

			purpose := "tarde demais"
			_, err = service.UpdateReservation(created.ID, reservation.UpdateReservationDTO{Purpose: &purpose})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeReservationInactive))
		})
	})

	Describe("CancelReservation", func() {
		var created *reservation.Reservation

		BeforeEach(func() {
			var err error
			created, err = service.CreateReservation(requesterID, reservation.CreateReservationDTO{
				VehicleID: 1,
				Purpose:   "viagem",
				StartsAt:  at(11, 8),
				EndsAt:    at(11, 12),
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should require a motive", func() {
			_, err := service.CancelReservation(created.ID, reservation.CancelReservationDTO{})
			Expect(err).To(HaveOccurred())
		})

		It("should transition active to cancelled with metadata", func() {
			res, err := service.CancelReservation(created.ID, reservation.CancelReservationDTO{Motive: "veículo em manutenção"})
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Status).To(Equal(reservation.StatusCancelled))
			Expect(res.CancelMotive).ToNot(BeNil())
			Expect(*res.CancelMotive).To(Equal("veículo em manutenção"))
			Expect(res.CancelledAt).ToNot(BeNil())
		})

		It("should refuse to cancel twice", func() {
			_, err := service.CancelReservation(created.ID, reservation.CancelReservationDTO{Motive: "primeira"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CancelReservation(created.ID, reservation.CancelReservationDTO{Motive: "segunda"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeReservationInactive))
		})
	})

	Describe("FinalizeReservation", func() {
		var created *reservation.Reservation

		BeforeEach(func() {
			var err error
			created, err = service.CreateReservation(requesterID, reservation.CreateReservationDTO{
				VehicleID: 1,
				Purpose:   "viagem",
				StartsAt:  at(11, 8),
				EndsAt:    at(11, 12),
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should transition active to finalized with odometer and notes", func() {
			odometer := int64(123456)
			res, err := service.FinalizeReservation(created.ID, reservation.FinalizeReservationDTO{
				Odometer: &odometer,
				Notes:    "sem ocorrências",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Status).To(Equal(reservation.StatusFinalized))
			Expect(res.FinalizedAt).ToNot(BeNil())
			Expect(res.FinalOdometer).ToNot(BeNil())
			Expect(*res.FinalOdometer).To(Equal(odometer))
		})

		It("should refuse to finalize a cancelled reservation", func() {
			_, err := service.CancelReservation(created.ID, reservation.CancelReservationDTO{Motive: "desmarcado"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.FinalizeReservation(created.ID, reservation.FinalizeReservationDTO{})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeReservationInactive))
		})

		It("should reject a negative odometer", func() {
			odometer := int64(-1)
			_, err := service.FinalizeReservation(created.ID, reservation.FinalizeReservationDTO{Odometer: &odometer})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Overlaps", func() {
		base := time.Date(2026, 6, 11, 8, 0, 0, 0, time.UTC)
		h := func(n int) time.Time { return base.Add(time.Duration(n) * time.Hour) }

		It("should detect partial and containing overlaps", func() {
			Expect(reservation.Overlaps(h(0), h(4), h(2), h(6))).To(BeTrue())
			Expect(reservation.Overlaps(h(2), h(6), h(0), h(4))).To(BeTrue())
			Expect(reservation.Overlaps(h(0), h(6), h(2), h(4))).To(BeTrue())
			Expect(reservation.Overlaps(h(2), h(4), h(0), h(6))).To(BeTrue())
		})

		It("should not flag touching boundaries", func() {
			Expect(reservation.Overlaps(h(0), h(4), h(4), h(8))).To(BeFalse())
			Expect(reservation.Overlaps(h(4), h(8), h(0), h(4))).To(BeFalse())
		})

		It("should not flag disjoint windows", func() {
			Expect(reservation.Overlaps(h(0), h(2), h(4), h(6))).To(BeFalse())
		})
	})
})
