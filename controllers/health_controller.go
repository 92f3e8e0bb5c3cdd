package controllers

import (
	"net/http"

	"github.com/jmoiron/sqlx"
)

// HealthController сообщает, жив ли сервер и доступна ли база данных.
type HealthController struct {
	db *sqlx.DB
}

func NewHealthController(db *sqlx.DB) *HealthController {
	return &HealthController{db: db}
}

// Health возвращает статус "OK", если сервер и база данных доступны.
// Пример URL: GET /api/health
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if err := c.db.PingContext(r.Context()); err != nil {
		respondJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "DEGRADED", "database": err.Error()})
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "OK"})
}
