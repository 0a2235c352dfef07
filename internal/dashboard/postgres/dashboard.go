package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/upenergia/asset-management/internal/dashboard"
)

// DashboardRepository runs the aggregate queries straight through sqlx;
// the counters do not map onto any single model.
type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) dashboard.RepositoryAPI {
	return &DashboardRepository{db: db}
}

const summaryQuery = `
SELECT
  (SELECT COUNT(*) FROM plants WHERE deleted_at IS NULL)                                   AS plants,
  (SELECT COUNT(*) FROM vehicles WHERE deleted_at IS NULL)                                 AS vehicles,
  (SELECT COUNT(*) FROM vehicles WHERE deleted_at IS NULL AND is_available = TRUE)         AS available_vehicles,
  (SELECT COUNT(*) FROM equipments WHERE deleted_at IS NULL)                               AS equipment,
  (SELECT COUNT(*) FROM work_orders WHERE status IN ('open', 'in_progress'))               AS open_work_orders,
  (SELECT COUNT(*) FROM reservations WHERE status = 'active')                              AS active_reservations,
  (SELECT COUNT(*) FROM holidays
     WHERE active = TRUE
       AND (recurring = TRUE OR EXTRACT(YEAR FROM date) = $1))                             AS holidays_this_year,
  (SELECT COUNT(*) FROM users WHERE is_active = TRUE AND deleted_at IS NULL)               AS active_users
`

func (r *DashboardRepository) Summary(year int) (*dashboard.Summary, error) {
	var s dashboard.Summary
	if err := r.db.Get(&s, summaryQuery, year); err != nil {
		return nil, err
	}
	return &s, nil
}

const plantBreakdownQuery = `
SELECT
  p.id   AS plant_id,
  p.name AS plant_name,
  (SELECT COUNT(*) FROM equipments e
     WHERE e.plant_id = p.id AND e.deleted_at IS NULL)                       AS equipment,
  (SELECT COUNT(*) FROM work_orders w
     WHERE w.plant_id = p.id AND w.status IN ('open', 'in_progress'))        AS open_work_orders
FROM plants p
WHERE p.deleted_at IS NULL
ORDER BY p.name ASC
`

func (r *DashboardRepository) PlantBreakdown() ([]*dashboard.PlantBreakdown, error) {
	var rows []*dashboard.PlantBreakdown
	if err := r.db.Select(&rows, plantBreakdownQuery); err != nil {
		return nil, err
	}
	return rows, nil
}
