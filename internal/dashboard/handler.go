package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/upenergia/asset-management/internal/transport"
	"github.com/upenergia/asset-management/pkg/logger"
)

type ServiceAPI interface {
	GetSummary() (*Summary, error)
	GetPlantBreakdown() ([]*PlantBreakdown, error)
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

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.GetSummary()
	if err != nil {
		h.Logger.Error("GetSummary: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to build dashboard summary")
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetPlantBreakdown(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.GetPlantBreakdown()
	if err != nil {
		h.Logger.Error("GetPlantBreakdown: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to build plant breakdown")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": rows})
}
