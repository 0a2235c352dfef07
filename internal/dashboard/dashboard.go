package dashboard

// Summary is the landing-page aggregate: asset counts and current
// activity across the fleet.
type Summary struct {
	Plants             int64 `json:"plants" db:"plants"`
	Vehicles           int64 `json:"vehicles" db:"vehicles"`
	AvailableVehicles  int64 `json:"available_vehicles" db:"available_vehicles"`
	Equipment          int64 `json:"equipment" db:"equipment"`
	OpenWorkOrders     int64 `json:"open_work_orders" db:"open_work_orders"`
	ActiveReservations int64 `json:"active_reservations" db:"active_reservations"`
	HolidaysThisYear   int64 `json:"holidays_this_year" db:"holidays_this_year"`
	ActiveUsers        int64 `json:"active_users" db:"active_users"`
}

// PlantBreakdown is one row of the per-plant activity listing.
type PlantBreakdown struct {
	PlantID        int64  `json:"plant_id" db:"plant_id"`
	PlantName      string `json:"plant_name" db:"plant_name"`
	Equipment      int64  `json:"equipment" db:"equipment"`
	OpenWorkOrders int64  `json:"open_work_orders" db:"open_work_orders"`
}
