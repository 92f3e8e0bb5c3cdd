package controllers

import (
	"net/http"

	"zdm_server_go/data"
	"zdm_server_go/models"
	"zdm_server_go/services"
)

// LicenseController forwards license operations to the worker.
type LicenseController struct {
	licenses *services.LicenseService
}

func NewLicenseController(licenses *services.LicenseService) *LicenseController {
	return &LicenseController{licenses: licenses}
}

// GET /api/licenses?center=
func (c *LicenseController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.licenses.List(r.Context(), r.URL.Query().Get("center"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, list)
}

// POST /api/licenses
// Blocks until the worker answers or the poll times out.
func (c *LicenseController) Add(w http.ResponseWriter, r *http.Request) {
	var req models.LicenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	req.User = callerRef(r, req.User)

	res, err := c.licenses.Add(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, res)
}

// POST /api/licenses/verify
func (c *LicenseController) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.LicenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	req.User = callerRef(r, req.User)

	res, err := c.licenses.Verify(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}

// JobController lets the console inspect a worker request.
type JobController struct {
	jobs *data.JobRequestStore
}

func NewJobController(jobs *data.JobRequestStore) *JobController {
	return &JobController{jobs: jobs}
}

// GET /api/jobs/{correlationId}
func (c *JobController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "correlationId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	req, err := c.jobs.GetByCorrelationID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, req)
}
