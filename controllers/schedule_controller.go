package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"zdm_server_go/errors"
	"zdm_server_go/middleware"
	"zdm_server_go/models"
	"zdm_server_go/services"
)

const defaultNextRuns = 5

// ScheduleController обслуживает регистрацию и просмотр расписаний.
type ScheduleController struct {
	schedules *services.ScheduleService
}

func NewScheduleController(schedules *services.ScheduleService) *ScheduleController {
	return &ScheduleController{schedules: schedules}
}

// callerRef подставляет текущего пользователя, если ссылка на пользователя не указана.
func callerRef(r *http.Request, ref string) string {
	if strings.TrimSpace(ref) != "" {
		return ref
	}
	if id, ok := middleware.UserID(r.Context()); ok {
		return strconv.FormatInt(id, 10)
	}
	return ref
}

// Register обрабатывает регистрацию расписания (одиночного или пары full/increment).
// Пример URL: POST /api/schedules
func (c *ScheduleController) Register(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduleRegistration
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	req.User = callerRef(r, req.User)

	res, err := c.schedules.Register(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, res)
}

// List возвращает расписания центра.
// Пример URL: GET /api/schedules?center=
func (c *ScheduleController) List(w http.ResponseWriter, r *http.Request) {
	views, err := c.schedules.ListByCenter(r.Context(), r.URL.Query().Get("center"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, views)
}

// Get возвращает расписание с описанием.
// Пример URL: GET /api/schedules/{id}
func (c *ScheduleController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	view, err := c.schedules.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

type statusRequest struct {
	Status *models.ScheduleStatus `json:"status"`
}

// SetStatus включает или выключает расписание.
// Пример URL: PATCH /api/schedules/{id} {"status": "Enabled"|"Disabled"}
func (c *ScheduleController) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Status == nil {
		respondError(w, r, errors.NewValidationError("status is required", "status", ""))
		return
	}
	if err := c.schedules.SetEnabled(r.Context(), id, *req.Status == models.ScheduleEnabled); err != nil {
		respondError(w, r, err)
		return
	}
	view, err := c.schedules.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

// NextRuns возвращает ближайшие запуски расписания.
// Пример URL: GET /api/schedules/{id}/next-runs?count=&from=
func (c *ScheduleController) NextRuns(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	q := r.URL.Query()

	count := defaultNextRuns
	if raw := q.Get("count"); raw != "" {
		if count, err = strconv.Atoi(raw); err != nil {
			respondError(w, r, errors.NewValidationError("count must be an integer", "count", raw))
			return
		}
	}
	from := time.Now()
	if raw := q.Get("from"); raw != "" {
		if from, err = time.Parse(time.RFC3339, raw); err != nil {
			respondError(w, r, errors.NewValidationError("from must be RFC 3339", "from", raw))
			return
		}
	}

	runs, err := c.schedules.NextRuns(r.Context(), id, count, from)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{"scheduleId": id, "nextRuns": runs})
}
