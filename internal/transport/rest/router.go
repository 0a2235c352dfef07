package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/upenergia/asset-management/internal/auth"
	"github.com/upenergia/asset-management/internal/calendar"
	"github.com/upenergia/asset-management/internal/dashboard"
	"github.com/upenergia/asset-management/internal/equipment"
	"github.com/upenergia/asset-management/internal/plant"
	"github.com/upenergia/asset-management/internal/reservation"
	"github.com/upenergia/asset-management/internal/transport/middleware"
	"github.com/upenergia/asset-management/internal/transport/swagger"
	"github.com/upenergia/asset-management/internal/user"
	"github.com/upenergia/asset-management/internal/vehicle"
	"github.com/upenergia/asset-management/internal/workorder"
)

// Handlers bundles every module handler the router mounts.
type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Plant       *plant.Handler
	Vehicle     *vehicle.Handler
	Calendar    *calendar.Handler
	Reservation *reservation.Handler
	Equipment   *equipment.Handler
	WorkOrder   *workorder.Handler
	Dashboard   *dashboard.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// OpenAPI spec and swagger UI live outside the API prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Everything below requires a valid token resolving to an
		// active user.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/auth/me", h.Auth.Me)

			pr.Route("/usuarios", func(ur chi.Router) {
				ur.Get("/{id}", h.User.GetUser)

				ur.Group(func(ar chi.Router) {
					ar.Use(middleware.RequirePermissions(auth.PermManageUsers))
					ar.Post("/", h.User.CreateUser)
					ar.Get("/", h.User.ListUsers)
					ar.Patch("/{id}", h.User.UpdateUser)
					ar.Delete("/{id}", h.User.DeactivateUser)
					ar.Post("/{id}/permissoes", h.User.GrantPermission)
					ar.Delete("/{id}/permissoes/{permissionId}", h.User.RevokePermission)
				})
			})

			pr.Route("/plantas", func(plr chi.Router) {
				plr.Get("/", h.Plant.ListPlants)
				plr.Get("/{id}", h.Plant.GetPlant)

				plr.Group(func(ar chi.Router) {
					ar.Use(middleware.RequirePermissions(auth.PermManagePlants))
					ar.Post("/", h.Plant.CreatePlant)
					ar.Patch("/{id}", h.Plant.UpdatePlant)
					ar.Delete("/{id}", h.Plant.DeletePlant)
				})
			})

			pr.Route("/veiculos", func(vr chi.Router) {
				vr.Get("/", h.Vehicle.ListVehicles)
				vr.Get("/{id}", h.Vehicle.GetVehicle)

				vr.Group(func(ar chi.Router) {
					ar.Use(middleware.RequirePermissions(auth.PermManageVehicles))
					ar.Post("/", h.Vehicle.CreateVehicle)
					ar.Patch("/{id}", h.Vehicle.UpdateVehicle)
					ar.Delete("/{id}", h.Vehicle.DeleteVehicle)
				})
			})

			pr.Route("/equipamentos", func(er chi.Router) {
				er.Get("/", h.Equipment.ListEquipment)
				er.Get("/{id}", h.Equipment.GetEquipment)

				er.Group(func(ar chi.Router) {
					ar.Use(middleware.RequirePermissions(auth.PermManageEquipment))
					ar.Post("/", h.Equipment.CreateEquipment)
					ar.Patch("/{id}", h.Equipment.UpdateEquipment)
					ar.Delete("/{id}", h.Equipment.DeleteEquipment)
				})
			})

			pr.Route("/ordens-servico", func(wr chi.Router) {
				wr.Post("/", h.WorkOrder.CreateWorkOrder)
				wr.Get("/", h.WorkOrder.ListWorkOrders)
				wr.Get("/{id}", h.WorkOrder.GetWorkOrder)
				wr.Patch("/{id}", h.WorkOrder.UpdateWorkOrder)

				wr.Group(func(ar chi.Router) {
					ar.Use(middleware.RequirePermissions(auth.PermManageWorkOrders))
					ar.Patch("/{id}/status", h.WorkOrder.TransitionWorkOrder)
				})
			})

			pr.Route("/reservas", func(rr chi.Router) {
				rr.Post("/", h.Reservation.CreateReservation)
				rr.Get("/", h.Reservation.ListReservations)
				rr.Get("/{id}", h.Reservation.GetReservation)
				rr.Patch("/{id}", h.Reservation.UpdateReservation)
				rr.Patch("/{id}/cancelar", h.Reservation.CancelReservation)
				rr.Patch("/{id}/finalizar", h.Reservation.FinalizeReservation)
			})

			pr.Route("/agenda", func(ag chi.Router) {
				ag.Get("/verificar-dia-util", h.Calendar.CheckBusinessDay)
				ag.Get("/proximos-dias-uteis", h.Calendar.NextBusinessDays)
				ag.Get("/contar-dias-uteis", h.Calendar.CountBusinessDays)
				ag.Get("/adicionar-dias-uteis", h.Calendar.AddBusinessDays)
				ag.Get("/calendario/{ano}/{mes}", h.Calendar.MonthCalendar)

				ag.Route("/feriados", func(fr chi.Router) {
					fr.Get("/", h.Calendar.ListHolidays)
					fr.Get("/{id}", h.Calendar.GetHoliday)

					fr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequirePermissions(auth.PermManageAgenda))
						ar.Post("/", h.Calendar.CreateHoliday)
						ar.Patch("/{id}", h.Calendar.UpdateHoliday)
						ar.Delete("/{id}", h.Calendar.DeleteHoliday)
					})
				})

				ag.Route("/configuracoes-dias-uteis", func(cr chi.Router) {
					cr.Get("/", h.Calendar.ListConfigs)
					cr.Get("/{id}", h.Calendar.GetConfig)

					cr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequirePermissions(auth.PermManageAgenda))
						ar.Post("/", h.Calendar.CreateConfig)
						ar.Patch("/{id}", h.Calendar.UpdateConfig)
						ar.Delete("/{id}", h.Calendar.DeleteConfig)
					})
				})
			})

			pr.Route("/dashboard", func(dr chi.Router) {
				dr.Use(middleware.RequirePermissions(auth.PermViewDashboard))
				dr.Get("/summary", h.Dashboard.GetSummary)
				dr.Get("/plantas", h.Dashboard.GetPlantBreakdown)
			})
		})
	})
}
