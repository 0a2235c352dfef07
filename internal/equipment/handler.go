package equipment

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/upenergia/asset-management/internal/transport"
	"github.com/upenergia/asset-management/pkg/logger"
)

type ServiceAPI interface {
	CreateEquipment(dto CreateEquipmentDTO) (*Equipment, error)
	GetEquipment(id int64) (*Equipment, error)
	ListEquipment(plantID *int64, limit, offset int) ([]*Equipment, int64, error)
	UpdateEquipment(id int64, dto UpdateEquipmentDTO) (*Equipment, error)
	DeactivateEquipment(id int64) error
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

func (h *Handler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var dto CreateEquipmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.CreateEquipment(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateEquipment: equipment created", "equipment_id", e.ID, "plant_id", e.PlantID)
	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid equipment ID")
		return
	}

	e, err := h.Service.GetEquipment(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	params := transport.ParsePageParams(r)

	var plantID *int64
	if pStr := r.URL.Query().Get("plantId"); pStr != "" {
		if p, err := strconv.ParseInt(pStr, 10, 64); err == nil {
			plantID = &p
		}
	}

	items, total, err := h.Service.ListEquipment(plantID, params.Limit, params.Offset())
	if err != nil {
		h.Logger.Error("ListEquipment: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list equipment")
		return
	}

	h.WritePaginated(w, items, params, total)
}

func (h *Handler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid equipment ID")
		return
	}

	var dto UpdateEquipmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.UpdateEquipment(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid equipment ID")
		return
	}

	if err := h.Service.DeactivateEquipment(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "equipment deactivated"})
}
