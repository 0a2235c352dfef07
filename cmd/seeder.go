package cmd

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/upenergia/asset-management/internal/auth"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			clearTables(db)
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)

		permissions := []struct {
			Name string
			Desc string
		}{
			{auth.PermManageUsers, "Can manage users and grants"},
			{auth.PermManageAgenda, "Can manage holidays and workday configs"},
			{auth.PermManagePlants, "Can manage plants"},
			{auth.PermManageVehicles, "Can manage vehicles"},
			{auth.PermManageEquipment, "Can manage equipment"},
			{auth.PermManageWorkOrders, "Can transition work orders"},
			{auth.PermViewDashboard, "Can view the dashboard"},
		}

		for _, p := range permissions {
			var pid int64
			if err := db.Get(&pid, "SELECT id FROM permissions WHERE name = $1", p.Name); err != nil {
				if _, err := db.Exec("INSERT INTO permissions (name, description, created_at) VALUES ($1, $2, now())", p.Name, p.Desc); err != nil {
					log.Fatalf("failed to insert permission %s: %v", p.Name, err)
				}
			}
		}

		adminRoleID := ensureRole(db, "admin", "full administrator")
		techRoleID := ensureRole(db, "technician", "field technician")

		// admin role carries every permission, technician only the
		// operational ones
		for _, p := range permissions {
			grantRolePermission(db, adminRoleID, p.Name)
		}
		for _, name := range []string{auth.PermManageWorkOrders, auth.PermViewDashboard} {
			grantRolePermission(db, techRoleID, name)
		}

		ensureUser(db, "admin@upenergia.com.br", "Administrador", string(hash), adminRoleID)
		ensureUser(db, "tecnico@upenergia.com.br", "Técnico de Campo", string(hash), techRoleID)

		var plantID int64
		if err := db.Get(&plantID, "SELECT id FROM plants WHERE cnpj = $1", "12345678000190"); err != nil {
			if _, err := db.Exec(
				"INSERT INTO plants (name, cnpj, address, city, state, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, true, now(), now())",
				"UFV Sertão Central", "12345678000190", "Rodovia CE-060, km 42", "Quixadá", "CE"); err != nil {
				log.Fatalf("failed to insert plant: %v", err)
			}
			if err := db.Get(&plantID, "SELECT id FROM plants WHERE cnpj = $1", "12345678000190"); err != nil {
				log.Fatalf("failed to lookup seeded plant: %v", err)
			}
			fmt.Println("Seeded plant: UFV Sertão Central")
		}

		vehicles := []struct {
			Plate, Model, Brand string
			Year                int
		}{
			{"ABC1D23", "Hilux", "Toyota", 2022},
			{"DEF4G56", "S10", "Chevrolet", 2021},
		}
		for _, v := range vehicles {
			var exists int
			if err := db.Get(&exists, "SELECT 1 FROM vehicles WHERE plate = $1", v.Plate); err != nil {
				if _, err := db.Exec(
					"INSERT INTO vehicles (plant_id, plate, model, brand, year, is_available, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, true, true, now(), now())",
					plantID, v.Plate, v.Model, v.Brand, v.Year); err != nil {
					log.Fatalf("failed to insert vehicle %s: %v", v.Plate, err)
				}
				fmt.Printf("Seeded vehicle: %s\n", v.Plate)
			}
		}

		holidays := []struct {
			Name, Date string
		}{
			{"Confraternização Universal", "2026-01-01"},
			{"Tiradentes", "2026-04-21"},
			{"Independência do Brasil", "2026-09-07"},
			{"Natal", "2026-12-25"},
		}
		for _, h := range holidays {
			var exists int
			if err := db.Get(&exists, "SELECT 1 FROM holidays WHERE name = $1", h.Name); err != nil {
				if _, err := db.Exec(
					"INSERT INTO holidays (name, date, kind, general, recurring, active, created_at, updated_at) VALUES ($1, $2, 'national', true, true, true, now(), now())",
					h.Name, h.Date); err != nil {
					log.Fatalf("failed to insert holiday %s: %v", h.Name, err)
				}
				fmt.Printf("Seeded holiday: %s\n", h.Name)
			}
		}

		var cfgExists int
		if err := db.Get(&cfgExists, "SELECT 1 FROM workday_configs WHERE name = $1", "Padrão Seg-Sex"); err != nil {
			if _, err := db.Exec(
				"INSERT INTO workday_configs (name, monday, tuesday, wednesday, thursday, friday, saturday, sunday, general, active, created_at, updated_at) VALUES ($1, true, true, true, true, true, false, false, true, true, now(), now())",
				"Padrão Seg-Sex"); err != nil {
				log.Fatalf("failed to insert workday config: %v", err)
			}
			fmt.Println("Seeded workday config: Padrão Seg-Sex")
		}

		fmt.Println("Database seeded successfully")
	},
}

func ensureRole(db *sqlx.DB, name, desc string) int64 {
	var id int64
	if err := db.Get(&id, "SELECT id FROM roles WHERE name = $1", name); err == nil {
		return id
	}
	if _, err := db.Exec("INSERT INTO roles (name, description, created_at) VALUES ($1, $2, now())", name, desc); err != nil {
		log.Fatalf("failed to insert role %s: %v", name, err)
	}
	if err := db.Get(&id, "SELECT id FROM roles WHERE name = $1", name); err != nil {
		log.Fatalf("role not found after insert %s: %v", name, err)
	}
	fmt.Printf("Seeded role: %s\n", name)
	return id
}

func grantRolePermission(db *sqlx.DB, roleID int64, permName string) {
	var pid int64
	if err := db.Get(&pid, "SELECT id FROM permissions WHERE name = $1", permName); err != nil {
		log.Fatalf("permission not found %s: %v", permName, err)
	}

	var exists int
	if err := db.Get(&exists, "SELECT 1 FROM role_permissions WHERE role_id = $1 AND permission_id = $2", roleID, pid); err == nil {
		return
	}

	if _, err := db.Exec("INSERT INTO role_permissions (role_id, permission_id, created_at) VALUES ($1, $2, now())", roleID, pid); err != nil {
		log.Fatalf("failed to grant permission %s to role %d: %v", permName, roleID, err)
	}
}

func ensureUser(db *sqlx.DB, email, name, passwordHash string, roleID int64) {
	var exists int
	if err := db.Get(&exists, "SELECT 1 FROM users WHERE email = $1", email); err == nil {
		fmt.Printf("user %s already exists\n", email)
		return
	}

	if _, err := db.Exec(
		"INSERT INTO users (email, name, password_hash, role_id, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, true, now(), now())",
		email, name, passwordHash, roleID); err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	fmt.Printf("Seeded user: %s\n", email)
}

func clearTables(db *sqlx.DB) {
	tables := []string{
		"user_permissions", "role_permissions", "reservations", "work_orders",
		"equipments", "vehicles", "holiday_plants", "workday_config_plants",
		"holidays", "workday_configs", "users", "roles", "permissions", "plants",
	}
	for _, t := range tables {
		if _, err := db.Exec("DELETE FROM " + t); err != nil {
			log.Fatalf("failed to clear table %s: %v", t, err)
		}
	}
	fmt.Println("Cleared existing data")
}
