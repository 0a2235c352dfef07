package reservation

import (
	"errors"
	"time"
)

// CreateReservationDTO is the payload for booking a vehicle.
type CreateReservationDTO struct {
	VehicleID int64     `json:"vehicle_id"`
	Purpose   string    `json:"purpose"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
}

func (dto CreateReservationDTO) Validate() error {
	if dto.VehicleID <= 0 {
		return errors.New("vehicle_id is required")
	}
	if dto.Purpose == "" {
		return errors.New("purpose is required")
	}
	if dto.StartsAt.IsZero() || dto.EndsAt.IsZero() {
		return errors.New("starts_at and ends_at are required")
	}
	return validateRange(dto.StartsAt, dto.EndsAt)
}

// UpdateReservationDTO moves or re-purposes an active reservation.
type UpdateReservationDTO struct {
	Purpose  *string    `json:"purpose,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
}

// CancelReservationDTO carries the cancellation motive.
type CancelReservationDTO struct {
	Motive string `json:"motive"`
}

func (dto CancelReservationDTO) Validate() error {
	if dto.Motive == "" {
		return errors.New("motive is required")
	}
	return nil
}

// FinalizeReservationDTO closes out a completed reservation.
type FinalizeReservationDTO struct {
	Odometer *int64 `json:"odometer,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

func (dto FinalizeReservationDTO) Validate() error {
	if dto.Odometer != nil && *dto.Odometer < 0 {
		return errors.New("odometer must not be negative")
	}
	return nil
}

func validateRange(start, end time.Time) error {
	if end.Before(start) {
		return errors.New("ends_at must not precede starts_at")
	}
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy == ey && sm == em && sd == ed && !start.Before(end) {
		return errors.New("on the same day, start time must precede end time")
	}
	return nil
}
