package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"zdm_server_go/models"
	"zdm_server_go/services"
)

// CatalogController serves centers, servers and backup jobs.
type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// GET /api/centers
func (c *CatalogController) ListCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := c.catalog.Centers(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, centers)
}

// POST /api/centers
func (c *CatalogController) CreateCenter(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCenterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	center, err := c.catalog.CreateCenter(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, center)
}

// GET /api/centers/{ref}
func (c *CatalogController) GetCenter(w http.ResponseWriter, r *http.Request) {
	center, err := c.catalog.Center(r.Context(), mux.Vars(r)["ref"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, center)
}

// GET /api/servers?center=
func (c *CatalogController) ListServers(w http.ResponseWriter, r *http.Request) {
	servers, err := c.catalog.Servers(r.Context(), r.URL.Query().Get("center"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, servers)
}

// POST /api/servers
func (c *CatalogController) CreateServer(w http.ResponseWriter, r *http.Request) {
	var req services.CreateServerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	srv, err := c.catalog.CreateServer(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, srv)
}

// GET /api/servers/{ref}?center=
func (c *CatalogController) GetServer(w http.ResponseWriter, r *http.Request) {
	srv, err := c.catalog.Server(r.Context(), r.URL.Query().Get("center"), mux.Vars(r)["ref"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, srv)
}

// GET /api/backups?center=
func (c *CatalogController) ListBackupJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := c.catalog.BackupJobs(r.Context(), r.URL.Query().Get("center"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, jobs)
}

// POST /api/backups
func (c *CatalogController) CreateBackupJob(w http.ResponseWriter, r *http.Request) {
	var req services.CreateBackupJobRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	job, err := c.catalog.CreateBackupJob(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, job)
}

// GET /api/backups/{id}
func (c *CatalogController) GetBackupJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	job, err := c.catalog.BackupJob(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, job)
}
