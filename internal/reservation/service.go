package reservation

import (
	"log/slog"
	"time"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/vehicle"
)

// RepositoryAPI is the data access contract. Create and Update run the
// overlap check and the write inside one transaction, so the no-overlap
// invariant holds under concurrent requests.
type RepositoryAPI interface {
	Create(res *Reservation) error
	Update(res *Reservation) error
	GetByID(id int64) (*Reservation, error)
	List(vehicleID *int64, limit, offset int) ([]*Reservation, int64, error)
	UpdateStatus(id int64, updates map[string]interface{}) error
}

// VehicleGetter resolves the booked vehicle.
type VehicleGetter interface {
	GetByID(id int64) (*vehicle.Vehicle, error)
}

type Service struct {
	repo     RepositoryAPI
	vehicles VehicleGetter
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo RepositoryAPI, vehicles VehicleGetter, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		vehicles: vehicles,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateReservation validates the request and books the vehicle. Fails
// NotFound when the vehicle is absent, BadRequest on an invalid or past
// range or an unavailable vehicle, Conflict on overlap.
func (s *Service) CreateReservation(requesterID int64, dto CreateReservationDTO) (*Reservation, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	v, err := s.vehicles.GetByID(dto.VehicleID)
	if err != nil {
		return nil, internal.NewNotFoundError("vehicle not found", internal.ErrCodeVehicleNotFound)
	}
	if !v.IsActive || !v.IsAvailable {
		s.logger.Warn("reservation rejected: vehicle unavailable", "vehicle_id", v.ID)
		return nil, internal.NewValidationError("vehicle is not available for reservations", internal.ErrCodeVehicleUnavailable)
	}

	if dto.StartsAt.Before(s.now()) {
		return nil, internal.NewValidationError("starts_at cannot be in the past", internal.ErrCodeDateInPast)
	}

	res := &Reservation{
		VehicleID:   dto.VehicleID,
		RequesterID: requesterID,
		Purpose:     dto.Purpose,
		StartsAt:    dto.StartsAt,
		EndsAt:      dto.EndsAt,
		Status:      StatusActive,
		CreatedAt:   s.now(),
		UpdatedAt:   s.now(),
	}

	if err := s.repo.Create(res); err != nil {
		s.logger.Warn("failed to create reservation", "error", err, "vehicle_id", dto.VehicleID)
		return nil, err
	}

	s.logger.Info("reservation created",
		"reservation_id", res.ID,
		"vehicle_id", res.VehicleID,
		"requester_id", requesterID,
		"starts_at", res.StartsAt,
		"ends_at", res.EndsAt)

	return res, nil
}

func (s *Service) GetReservation(id int64) (*Reservation, error) {
	res, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("reservation not found", internal.ErrCodeReservationNotFound)
	}
	return res, nil
}

func (s *Service) ListReservations(vehicleID *int64, limit, offset int) ([]*Reservation, int64, error) {
	return s.repo.List(vehicleID, limit, offset)
}

// UpdateReservation moves or re-purposes an active reservation. The
// overlap check re-runs excluding the reservation's own row.
func (s *Service) UpdateReservation(id int64, dto UpdateReservationDTO) (*Reservation, error) {
	res, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("reservation not found", internal.ErrCodeReservationNotFound)
	}

	if !res.IsActive() {
		return nil, internal.NewValidationError("only active reservations can be updated", internal.ErrCodeReservationInactive)
	}

	if dto.Purpose != nil {
		res.Purpose = *dto.Purpose
	}
	if dto.StartsAt != nil {
		res.StartsAt = *dto.StartsAt
	}
	if dto.EndsAt != nil {
		res.EndsAt = *dto.EndsAt
	}

	if err := validateRange(res.StartsAt, res.EndsAt); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidDateRange)
	}
	if dto.StartsAt != nil && res.StartsAt.Before(s.now()) {
		return nil, internal.NewValidationError("starts_at cannot be in the past", internal.ErrCodeDateInPast)
	}

	res.UpdatedAt = s.now()

	if err := s.repo.Update(res); err != nil {
		s.logger.Warn("failed to update reservation", "error", err, "reservation_id", id)
		return nil, err
	}

	return res, nil
}

// CancelReservation transitions active -> cancelled.
func (s *Service) CancelReservation(id int64, dto CancelReservationDTO) (*Reservation, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	res, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("reservation not found", internal.ErrCodeReservationNotFound)
	}

	if !res.IsActive() {
		s.logger.Warn("cannot cancel reservation in current status",
			"reservation_id", id,
			"current_status", res.Status)
		return nil, internal.NewValidationError("only active reservations can be cancelled", internal.ErrCodeReservationInactive)
	}

	now := s.now()
	updates := map[string]interface{}{
		"status":        StatusCancelled,
		"cancel_motive": dto.Motive,
		"cancelled_at":  now,
		"updated_at":    now,
	}
	if err := s.repo.UpdateStatus(id, updates); err != nil {
		s.logger.Error("failed to cancel reservation", "error", err, "reservation_id", id)
		return nil, err
	}

	res.Status = StatusCancelled
	res.CancelMotive = &dto.Motive
	res.CancelledAt = &now
	res.UpdatedAt = now

	s.logger.Info("reservation cancelled", "reservation_id", id, "motive", dto.Motive)
	return res, nil
}

// FinalizeReservation transitions active -> finalized.
func (s *Service) FinalizeReservation(id int64, dto FinalizeReservationDTO) (*Reservation, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	res, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("reservation not found", internal.ErrCodeReservationNotFound)
	}

	if !res.IsActive() {
		s.logger.Warn("cannot finalize reservation in current status",
			"reservation_id", id,
			"current_status", res.Status)
		return nil, internal.NewValidationError("only active reservations can be finalized", internal.ErrCodeReservationInactive)
	}

	now := s.now()
	updates := map[string]interface{}{
		"status":       StatusFinalized,
		"finalized_at": now,
		"updated_at":   now,
	}
	if dto.Notes != "" {
		updates["final_notes"] = dto.Notes
	}
	if dto.Odometer != nil {
		updates["final_odometer"] = *dto.Odometer
	}
	if err := s.repo.UpdateStatus(id, updates); err != nil {
		s.logger.Error("failed to finalize reservation", "error", err, "reservation_id", id)
		return nil, err
	}

	res.Status = StatusFinalized
	res.FinalizedAt = &now
	if dto.Notes != "" {
		res.FinalNotes = &dto.Notes
	}
	res.FinalOdometer = dto.Odometer
	res.UpdatedAt = now

	s.logger.Info("reservation finalized", "reservation_id", id)
	return res, nil
}
