package reservation

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/upenergia/asset-management/internal/auth"
	"github.com/upenergia/asset-management/internal/transport"
	"github.com/upenergia/asset-management/pkg/logger"
)

type ServiceAPI interface {
	CreateReservation(requesterID int64, dto CreateReservationDTO) (*Reservation, error)
	GetReservation(id int64) (*Reservation, error)
	ListReservations(vehicleID *int64, limit, offset int) ([]*Reservation, int64, error)
	UpdateReservation(id int64, dto UpdateReservationDTO) (*Reservation, error)
	CancelReservation(id int64, dto CancelReservationDTO) (*Reservation, error)
	FinalizeReservation(id int64, dto FinalizeReservationDTO) (*Reservation, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateReservationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Service.CreateReservation(user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateReservation: reservation created",
		"reservation_id", res.ID,
		"vehicle_id", res.VehicleID,
		"requester_id", user.ID)

	h.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid reservation ID")
		return
	}

	res, err := h.Service.GetReservation(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	params := transport.ParsePageParams(r)

	var vehicleID *int64
	if vStr := r.URL.Query().Get("vehicleId"); vStr != "" {
		if v, err := strconv.ParseInt(vStr, 10, 64); err == nil {
			vehicleID = &v
		}
	}

	reservations, total, err := h.Service.ListReservations(vehicleID, params.Limit, params.Offset())
	if err != nil {
		h.Logger.Error("ListReservations: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list reservations")
		return
	}

	h.WritePaginated(w, reservations, params, total)
}

func (h *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid reservation ID")
		return
	}

	var dto UpdateReservationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Service.UpdateReservation(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid reservation ID")
		return
	}

	var dto CancelReservationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Service.CancelReservation(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) FinalizeReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid reservation ID")
		return
	}

	var dto FinalizeReservationDTO
	if r.Body != nil {
		// body is optional for finalize
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	res, err := h.Service.FinalizeReservation(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, res)
}
