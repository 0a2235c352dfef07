package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/auth"
	authpg "github.com/upenergia/asset-management/internal/auth/postgres"
	"github.com/upenergia/asset-management/internal/calendar"
	calendarpg "github.com/upenergia/asset-management/internal/calendar/postgres"
	"github.com/upenergia/asset-management/internal/dashboard"
	dashboardpg "github.com/upenergia/asset-management/internal/dashboard/postgres"
	"github.com/upenergia/asset-management/internal/equipment"
	equipmentpg "github.com/upenergia/asset-management/internal/equipment/postgres"
	"github.com/upenergia/asset-management/internal/plant"
	plantpg "github.com/upenergia/asset-management/internal/plant/postgres"
	"github.com/upenergia/asset-management/internal/reservation"
	reservationpg "github.com/upenergia/asset-management/internal/reservation/postgres"
	"github.com/upenergia/asset-management/internal/transport/rest"
	"github.com/upenergia/asset-management/internal/transport/swagger"
	"github.com/upenergia/asset-management/internal/user"
	userpg "github.com/upenergia/asset-management/internal/user/postgres"
	"github.com/upenergia/asset-management/internal/vehicle"
	vehiclepg "github.com/upenergia/asset-management/internal/vehicle/postgres"
	"github.com/upenergia/asset-management/internal/workorder"
	workorderpg "github.com/upenergia/asset-management/internal/workorder/postgres"
	"github.com/upenergia/asset-management/pkg/logger"
)

const openAPISpecPath = "./api/openapi.yml"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config

	if err := swagger.ValidateSpec(context.Background(), openAPISpecPath); err != nil {
		return err
	}

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.JWTSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)

	authRepo := authpg.NewRepository(deps.GormDB)
	authService := auth.NewService(authRepo, tokenGen)
	authHandler := auth.NewHandler(authService)

	userRepo := userpg.NewUserRepository(deps.GormDB)
	userService := user.NewService(userRepo, cfg.Security.BCryptCost, deps.Logger)
	userHandler := user.NewHandler(userService)

	plantRepo := plantpg.NewPlantRepository(deps.GormDB)
	plantService := plant.NewService(plantRepo, deps.Logger)
	plantHandler := plant.NewHandler(plantService)

	vehicleRepo := vehiclepg.NewVehicleRepository(deps.GormDB)
	vehicleService := vehicle.NewService(vehicleRepo, deps.Logger)
	vehicleHandler := vehicle.NewHandler(vehicleService)

	calendarRepo := calendarpg.NewCalendarRepository(deps.GormDB)
	calendarService := calendar.NewService(calendarRepo, plantRepo, deps.Logger)
	calendarHandler := calendar.NewHandler(calendarService)

	reservationRepo := reservationpg.NewReservationRepository(deps.GormDB)
	reservationService := reservation.NewService(reservationRepo, vehicleRepo, deps.Logger)
	reservationHandler := reservation.NewHandler(reservationService)

	equipmentRepo := equipmentpg.NewEquipmentRepository(deps.GormDB)
	equipmentService := equipment.NewService(equipmentRepo, plantRepo, deps.Logger)
	equipmentHandler := equipment.NewHandler(equipmentService)

	workOrderRepo := workorderpg.NewWorkOrderRepository(deps.GormDB)
	workOrderService := workorder.NewService(workOrderRepo, plantRepo, equipmentRepo, deps.Logger)
	workOrderHandler := workorder.NewHandler(workOrderService)

	dashboardRepo := dashboardpg.NewDashboardRepository(deps.DB)
	dashboardService := dashboard.NewService(dashboardRepo, deps.Logger)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, rest.Handlers{
		Auth:        authHandler,
		User:        userHandler,
		Plant:       plantHandler,
		Vehicle:     vehicleHandler,
		Calendar:    calendarHandler,
		Reservation: reservationHandler,
		Equipment:   equipmentHandler,
		WorkOrder:   workOrderHandler,
		Dashboard:   dashboardHandler,
	}, deps.Logger)

	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already-pooled pgx connection.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{
		Conn: db.DB,
	}), &gorm.Config{})
}
