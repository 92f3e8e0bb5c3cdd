package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"

	"zdm_server_go/auth"
	"zdm_server_go/data"
	"zdm_server_go/middleware"
	"zdm_server_go/services"
)

// Deps - зависимости HTTP-слоя.
type Deps struct {
	DB        *sqlx.DB
	Stores    *data.Stores
	Tokens    *auth.TokenService
	Catalog   *services.CatalogService
	Schedules *services.ScheduleService
	Licenses  *services.LicenseService

	// RequestsPerSecond <= 0 отключает ограничение частоты запросов.
	RequestsPerSecond float64
	Burst             int
}

// NewRouter собирает маршруты API.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestContext)
	router.Use(middleware.RateLimit(d.RequestsPerSecond, d.Burst))

	health := NewHealthController(d.DB)
	authCtl := NewAuthController(d.Stores.Users, d.Tokens)
	catalog := NewCatalogController(d.Catalog)
	schedules := NewScheduleController(d.Schedules)
	licenses := NewLicenseController(d.Licenses)
	jobs := NewJobController(d.Stores.Jobs)

	// Открытые маршруты (без JWT)
	router.HandleFunc("/api/health", health.Health).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/login", authCtl.Login).Methods(http.MethodPost)

	// Все остальные маршруты /api требуют токен
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWT(d.Tokens))

	api.HandleFunc("/auth/me", authCtl.Me).Methods(http.MethodGet)

	api.HandleFunc("/centers", catalog.ListCenters).Methods(http.MethodGet)
	api.HandleFunc("/centers", catalog.CreateCenter).Methods(http.MethodPost)
	api.HandleFunc("/centers/{ref}", catalog.GetCenter).Methods(http.MethodGet)

	api.HandleFunc("/servers", catalog.ListServers).Methods(http.MethodGet)
	api.HandleFunc("/servers", catalog.CreateServer).Methods(http.MethodPost)
	api.HandleFunc("/servers/{ref}", catalog.GetServer).Methods(http.MethodGet)

	api.HandleFunc("/backups", catalog.ListBackupJobs).Methods(http.MethodGet)
	api.HandleFunc("/backups", catalog.CreateBackupJob).Methods(http.MethodPost)
	api.HandleFunc("/backups/{id:[0-9]+}", catalog.GetBackupJob).Methods(http.MethodGet)

	api.HandleFunc("/schedules", schedules.Register).Methods(http.MethodPost)
	api.HandleFunc("/schedules", schedules.List).Methods(http.MethodGet)
	api.HandleFunc("/schedules/{id:[0-9]+}", schedules.Get).Methods(http.MethodGet)
	api.HandleFunc("/schedules/{id:[0-9]+}", schedules.SetStatus).Methods(http.MethodPatch)
	api.HandleFunc("/schedules/{id:[0-9]+}/next-runs", schedules.NextRuns).Methods(http.MethodGet)

	api.HandleFunc("/licenses", licenses.List).Methods(http.MethodGet)
	api.HandleFunc("/licenses", licenses.Add).Methods(http.MethodPost)
	api.HandleFunc("/licenses/verify", licenses.Verify).Methods(http.MethodPost)

	api.HandleFunc("/jobs/{correlationId:[0-9]+}", jobs.Get).Methods(http.MethodGet)

	return router
}
