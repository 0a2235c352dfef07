package plant

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
	CreatePlant(dto CreatePlantDTO) (*Plant, error)
	GetPlant(id int64) (*Plant, error)
	ListPlants(limit, offset int) ([]*Plant, int64, error)
	UpdatePlant(id int64, dto UpdatePlantDTO) (*Plant, error)
	DeactivatePlant(id int64) error
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

func (h *Handler) CreatePlant(w http.ResponseWriter, r *http.Request) {
	var dto CreatePlantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.CreatePlant(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) GetPlant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid plant ID")
		return
	}

	p, err := h.Service.GetPlant(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) ListPlants(w http.ResponseWriter, r *http.Request) {
	params := transport.ParsePageParams(r)

	plants, total, err := h.Service.ListPlants(params.Limit, params.Offset())
	if err != nil {
		h.Logger.Error("ListPlants: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list plants")
		return
	}

	h.WritePaginated(w, plants, params, total)
}

func (h *Handler) UpdatePlant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid plant ID")
		return
	}

	var dto UpdatePlantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.UpdatePlant(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePlant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid plant ID")
		return
	}

	if err := h.Service.DeactivatePlant(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
