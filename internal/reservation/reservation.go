package reservation

import (
	"time"
)

// Reservation statuses. Created active; the only permitted transitions
// are active -> cancelled and active -> finalized.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusFinalized = "finalized"
)

// Reservation books a vehicle for a [starts_at, ends_at) window. Among
// reservations with status=active on the same vehicle, windows never overlap.
type Reservation struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	VehicleID     int64      `json:"vehicle_id" gorm:"column:vehicle_id;not null"`
	RequesterID   int64      `json:"requester_id" gorm:"column:requester_id;not null"`
	Purpose       string     `json:"purpose"`
	StartsAt      time.Time  `json:"starts_at" gorm:"column:starts_at;not null"`
	EndsAt        time.Time  `json:"ends_at" gorm:"column:ends_at;not null"`
	Status        string     `json:"status" gorm:"default:active"`
	CancelMotive  *string    `json:"cancel_motive,omitempty" gorm:"column:cancel_motive"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty" gorm:"column:cancelled_at"`
	FinalOdometer *int64     `json:"final_odometer,omitempty" gorm:"column:final_odometer"`
	FinalNotes    *string    `json:"final_notes,omitempty" gorm:"column:final_notes"`
	FinalizedAt   *time.Time `json:"finalized_at,omitempty" gorm:"column:finalized_at"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Reservation) TableName() string {
	return "reservations"
}

func (r *Reservation) IsActive() bool {
	return r.Status == StatusActive
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching boundaries do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
