package calendar

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
	CreateHoliday(dto CreateHolidayDTO) (*Holiday, error)
	GetHoliday(id int64) (*Holiday, error)
	ListHolidays(limit, offset int) ([]*Holiday, int64, error)
	UpdateHoliday(id int64, dto UpdateHolidayDTO) (*Holiday, error)
	DeactivateHoliday(id int64) error

	CreateConfig(dto CreateWorkdayConfigDTO) (*WorkdayConfig, error)
	GetConfig(id int64) (*WorkdayConfig, error)
	ListConfigs(limit, offset int) ([]*WorkdayConfig, int64, error)
	UpdateConfig(id int64, dto UpdateWorkdayConfigDTO) (*WorkdayConfig, error)
	DeactivateConfig(id int64) error

	IsBusinessDay(date string, plantID *int64) (*DayInfo, error)
	NextBusinessDays(n int, start string, plantID *int64) (*BusinessDaysResult, error)
	CountBusinessDaysBetween(start, end string, plantID *int64) (int, error)
	AddBusinessDays(start string, n int, plantID *int64) (*DayInfo, error)
	MonthCalendar(year, month int, plantID *int64) ([]DayInfo, error)
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

// plantIDParam reads the optional plantaId query parameter.
func plantIDParam(r *http.Request) *int64 {
	if s := r.URL.Query().Get("plantaId"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &v
		}
	}
	return nil
}

func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var dto CreateHolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	holiday, err := h.Service.CreateHoliday(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateHoliday: holiday created", "holiday_id", holiday.ID, "name", holiday.Name)
	h.WriteJSON(w, http.StatusCreated, holiday)
}

func (h *Handler) GetHoliday(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid holiday ID")
		return
	}

	holiday, err := h.Service.GetHoliday(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, holiday)
}

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	params := transport.ParsePageParams(r)

	holidays, total, err := h.Service.ListHolidays(params.Limit, params.Offset())
	if err != nil {
		h.Logger.Error("ListHolidays: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list holidays")
		return
	}

	h.WritePaginated(w, holidays, params, total)
}

func (h *Handler) UpdateHoliday(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid holiday ID")
		return
	}

	var dto UpdateHolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	holiday, err := h.Service.UpdateHoliday(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, holiday)
}

func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid holiday ID")
		return
	}

	if err := h.Service.DeactivateHoliday(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "holiday deactivated"})
}

func (h *Handler) CreateConfig(w http.ResponseWriter, r *http.Request) {
	var dto CreateWorkdayConfigDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg, err := h.Service.CreateConfig(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateConfig: workday config created", "config_id", cfg.ID, "name", cfg.Name)
	h.WriteJSON(w, http.StatusCreated, cfg)
}

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid config ID")
		return
	}

	cfg, err := h.Service.GetConfig(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, cfg)
}

func (h *Handler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	params := transport.ParsePageParams(r)

	configs, total, err := h.Service.ListConfigs(params.Limit, params.Offset())
	if err != nil {
		h.Logger.Error("ListConfigs: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list workday configs")
		return
	}

	h.WritePaginated(w, configs, params, total)
}

func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid config ID")
		return
	}

	var dto UpdateWorkdayConfigDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg, err := h.Service.UpdateConfig(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, cfg)
}

func (h *Handler) DeleteConfig(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid config ID")
		return
	}

	if err := h.Service.DeactivateConfig(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "workday config deactivated"})
}

// CheckBusinessDay answers GET /agenda/verificar-dia-util?data=&plantaId=.
func (h *Handler) CheckBusinessDay(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("data")
	if date == "" {
		h.WriteError(w, http.StatusBadRequest, "data query parameter is required")
		return
	}

	info, err := h.Service.IsBusinessDay(date, plantIDParam(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, info)
}

// NextBusinessDays answers GET /agenda/proximos-dias-uteis?quantidade=&dataInicio=&plantaId=.
func (h *Handler) NextBusinessDays(w http.ResponseWriter, r *http.Request) {
	n := 1
	if s := r.URL.Query().Get("quantidade"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "quantidade must be an integer")
			return
		}
		n = v
	}

	result, err := h.Service.NextBusinessDays(n, r.URL.Query().Get("dataInicio"), plantIDParam(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// CountBusinessDays answers GET /agenda/contar-dias-uteis?dataInicio=&dataFinal=&plantaId=.
func (h *Handler) CountBusinessDays(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("dataInicio")
	end := r.URL.Query().Get("dataFinal")
	if start == "" || end == "" {
		h.WriteError(w, http.StatusBadRequest, "dataInicio and dataFinal query parameters are required")
		return
	}

	count, err := h.Service.CountBusinessDaysBetween(start, end, plantIDParam(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]int{"business_days": count})
}

// AddBusinessDays answers GET /agenda/adicionar-dias-uteis?data=&quantidade=&plantaId=.
func (h *Handler) AddBusinessDays(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("data")
	if date == "" {
		h.WriteError(w, http.StatusBadRequest, "data query parameter is required")
		return
	}

	n := 1
	if s := r.URL.Query().Get("quantidade"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "quantidade must be an integer")
			return
		}
		n = v
	}

	info, err := h.Service.AddBusinessDays(date, n, plantIDParam(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, info)
}

// MonthCalendar answers GET /agenda/calendario/{ano}/{mes}?plantaId=.
func (h *Handler) MonthCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "ano"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "mes"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid month")
		return
	}

	days, err := h.Service.MonthCalendar(year, month, plantIDParam(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"year":  year,
		"month": month,
		"days":  days,
	})
}
