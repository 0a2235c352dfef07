package workorder

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
	CreateWorkOrder(creatorID int64, dto CreateWorkOrderDTO) (*WorkOrder, error)
	GetWorkOrder(id int64) (*WorkOrder, error)
	ListWorkOrders(filter ListFilter, limit, offset int) ([]*WorkOrder, int64, error)
	UpdateWorkOrder(id int64, dto UpdateWorkOrderDTO) (*WorkOrder, error)
	Transition(id int64, dto TransitionDTO) (*WorkOrder, error)
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

func (h *Handler) CreateWorkOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateWorkOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wo, err := h.Service.CreateWorkOrder(user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateWorkOrder: work order created",
		"work_order_id", wo.ID,
		"plant_id", wo.PlantID,
		"created_by", user.ID)

	h.WriteJSON(w, http.StatusCreated, wo)
}

func (h *Handler) GetWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid work order ID")
		return
	}

	wo, err := h.Service.GetWorkOrder(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, wo)
}

func (h *Handler) ListWorkOrders(w http.ResponseWriter, r *http.Request) {
	params := transport.ParsePageParams(r)

	var filter ListFilter
	if pStr := r.URL.Query().Get("plantId"); pStr != "" {
		if p, err := strconv.ParseInt(pStr, 10, 64); err == nil {
			filter.PlantID = &p
		}
	}
	if sStr := r.URL.Query().Get("status"); sStr != "" {
		filter.Status = &sStr
	}
	if aStr := r.URL.Query().Get("assigneeId"); aStr != "" {
		if a, err := strconv.ParseInt(aStr, 10, 64); err == nil {
			filter.AssigneeID = &a
		}
	}

	orders, total, err := h.Service.ListWorkOrders(filter, params.Limit, params.Offset())
	if err != nil {
		h.Logger.Error("ListWorkOrders: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list work orders")
		return
	}

	h.WritePaginated(w, orders, params, total)
}

func (h *Handler) UpdateWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid work order ID")
		return
	}

	var dto UpdateWorkOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wo, err := h.Service.UpdateWorkOrder(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, wo)
}

func (h *Handler) TransitionWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid work order ID")
		return
	}

	var dto TransitionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wo, err := h.Service.Transition(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, wo)
}
