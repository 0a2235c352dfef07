package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/reservation"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) reservation.RepositoryAPI {
	return &ReservationRepository{db: db}
}

// Create inserts a reservation after checking for overlaps inside one
// transaction. The vehicle row is locked first so two concurrent creates
// serialize even when neither sees an existing reservation; the
// reservations_no_overlap exclusion constraint backs the check for
// writers that bypass this path.
func (r *ReservationRepository) Create(res *reservation.Reservation) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.checkOverlap(tx, res.VehicleID, res.StartsAt, res.EndsAt, 0); err != nil {
			return err
		}
		return tx.Create(res).Error
	})
	return conflictFromDB(err)
}

// Update re-runs the overlap check excluding the reservation's own row.
func (r *ReservationRepository) Update(res *reservation.Reservation) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.checkOverlap(tx, res.VehicleID, res.StartsAt, res.EndsAt, res.ID); err != nil {
			return err
		}
		return tx.Save(res).Error
	})
	return conflictFromDB(err)
}

func (r *ReservationRepository) checkOverlap(tx *gorm.DB, vehicleID int64, start, end time.Time, excludeID int64) error {
	// sqlite (tests) has no row locks; its transactions serialize writers anyway
	if tx.Dialector.Name() == "postgres" {
		// Lock the parent vehicle row before scanning: with no matching
		// reservation rows the scan alone locks nothing, and two
		// concurrent creates would both pass an empty check.
		if err := tx.Exec("SELECT id FROM vehicles WHERE id = ? FOR UPDATE", vehicleID).Error; err != nil {
			return err
		}
	}

	var colliding []*reservation.Reservation

	// Half-open intervals: starts_at < requested end AND ends_at > requested
	// start. Boundary-touching windows pass.
	q := tx.Where("vehicle_id = ? AND status = ?", vehicleID, reservation.StatusActive).
		Where("starts_at < ? AND ends_at > ?", end, start)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	if err := q.Order("starts_at ASC").Find(&colliding).Error; err != nil {
		return err
	}

	if len(colliding) > 0 {
		first := colliding[0]
		msg := fmt.Sprintf("vehicle already reserved from %s to %s",
			first.StartsAt.Format(time.RFC3339), first.EndsAt.Format(time.RFC3339))
		return internal.NewConflictError(msg, internal.ErrCodeReservationConflict)
	}

	return nil
}

// conflictFromDB translates an exclusion-constraint violation into the
// same Conflict the in-transaction check raises.
func conflictFromDB(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
		return internal.NewConflictError("vehicle already reserved for an overlapping period", internal.ErrCodeReservationConflict)
	}
	return err
}

func (r *ReservationRepository) GetByID(id int64) (*reservation.Reservation, error) {
	var res reservation.Reservation
	err := r.db.Where("id = ?", id).First(&res).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("reservation not found", internal.ErrCodeReservationNotFound)
		}
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) List(vehicleID *int64, limit, offset int) ([]*reservation.Reservation, int64, error) {
	var reservations []*reservation.Reservation
	var total int64

	base := r.db.Model(&reservation.Reservation{})
	if vehicleID != nil {
		base = base.Where("vehicle_id = ?", *vehicleID)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("starts_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reservations).Error
	return reservations, total, err
}

func (r *ReservationRepository) UpdateStatus(id int64, updates map[string]interface{}) error {
	return r.db.Model(&reservation.Reservation{}).
		Where("id = ?", id).
		Updates(updates).Error
}
