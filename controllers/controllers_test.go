package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zdm_server_go/auth"
	"zdm_server_go/data"
	"zdm_server_go/data/datatest"
	"zdm_server_go/errors"
	"zdm_server_go/models"
	"zdm_server_go/services"
)

const testPassword = "s3cret-pass"

type harness struct {
	router http.Handler
	stores *data.Stores
	center *models.Center
	user   *models.User
	token  string
}

func newHarness(t *testing.T, ids data.IDSource) *harness {
	t.Helper()
	db := datatest.NewDB(t)
	stores := data.NewStores(db)

	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	user := &models.User{Email: "ops@example.com", DisplayName: "Ops", PasswordHash: hash}
	require.NoError(t, stores.Users.Create(context.Background(), user))

	tokens := auth.NewTokenService("test-secret", time.Hour, "zdm-test")
	token, _, err := tokens.GenerateToken(user.ID, user.Email)
	require.NoError(t, err)

	resolver := services.NewResolver(stores)
	alloc := data.NewIDAllocator(ids, 0)
	router := NewRouter(Deps{
		DB:        db,
		Stores:    stores,
		Tokens:    tokens,
		Catalog:   services.NewCatalogService(stores, resolver),
		Schedules: services.NewScheduleService(stores, resolver, alloc),
		Licenses: services.NewLicenseService(stores, resolver, services.NewPoller(stores.Jobs, alloc),
			services.PollOptions{Timeout: 150 * time.Millisecond, Interval: 10 * time.Millisecond}),
	})

	return &harness{
		router: router,
		stores: stores,
		center: datatest.SeedCenter(t, db, "zdm-main"),
		user:   user,
		token:  token,
	}
}

func (h *harness) send(t *testing.T, method, path string, body interface{}, authorized bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return h.send(t, method, path, body, true)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rec, &body)
	return body["error"]
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", errors.NewValidationError("time must be HH:mm", "time", "24:00"), http.StatusBadRequest},
		{"invalid request", errors.NewInvalidRequestError("unknown center %q", "x"), http.StatusBadRequest},
		{"bad type in body", errors.Mark(errors.NewScheduleTypeError(99), errors.ErrInvalidRequest), http.StatusBadRequest},
		{"bad stored type", errors.NewScheduleTypeError(42), http.StatusInternalServerError},
		{"unauthorized", errors.Wrap(errors.ErrUnauthorized, "expired"), http.StatusUnauthorized},
		{"not found", errors.NewNotFoundError("schedule %d", 1), http.StatusNotFound},
		{"conflict", errors.Wrap(errors.ErrConflict, "center exists"), http.StatusConflict},
		{"conflict during persist", errors.Mark(errors.Wrap(errors.ErrConflict, "insert"), errors.ErrDataProcessing), http.StatusInternalServerError},
		{"exhausted", errors.Wrap(errors.ErrResourceExhausted, "ids"), http.StatusServiceUnavailable},
		{"timeout", errors.Wrap(errors.ErrTimeout, "license"), http.StatusGatewayTimeout},
		{"deadline", errors.Wrap(context.DeadlineExceeded, "poll"), http.StatusGatewayTimeout},
		{"remote", errors.Wrap(errors.ErrRemoteFailure, "disk full"), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestHealthIsOpen(t *testing.T) {
	h := newHarness(t, data.RandomIDSource())

	rec := h.send(t, http.MethodGet, "/api/health", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newHarness(t, data.RandomIDSource())

	for _, path := range []string{"/api/centers", "/api/schedules?center=zdm-main", "/api/auth/me"} {
		rec := h.send(t, http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestLogin(t *testing.T) {
	h := newHarness(t, data.RandomIDSource())

	rec := h.send(t, http.MethodPost, "/api/auth/login",
		models.LoginRequest{Email: "OPS@example.com", Password: testPassword}, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.AuthResponse
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, h.user.ID, resp.User.ID)
	_, err := time.Parse(time.RFC3339, resp.ExpiresAt)
	assert.NoError(t, err)

	// The issued token opens protected routes.
	h.token = resp.Token
	rec = h.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.UserPublicInfo
	decode(t, rec, &me)
	assert.Equal(t, "ops@example.com", me.Email)

	for _, bad := range []models.LoginRequest{
		{Email: "ops@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: testPassword},
	} {
		rec = h.send(t, http.MethodPost, "/api/auth/login", bad, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec = h.send(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "ops@example.com"}, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleLifecycle(t *testing.T) {
	h := newHarness(t, data.RandomIDSource())

	// No user in the body: the caller owns the schedule.
	rec := h.do(t, http.MethodPost, "/api/schedules", map[string]interface{}{
		"type":      "DAILY",
		"increment": map[string]string{"time": "23:30"},
		"center":    "zdm-main",
		"jobName":   "nightly",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res models.ScheduleRegistrationResult
	decode(t, rec, &res)
	require.Positive(t, res.ScheduleID)
	assert.Equal(t, "[Basic] Start working every day at 23:30.", res.Descriptions["increment"])

	path := "/api/schedules/" + strconv.FormatInt(res.ScheduleID, 10)
	rec = h.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view models.ScheduleView
	decode(t, rec, &view)
	assert.Equal(t, h.user.ID, view.OwnerUserId)
	assert.Equal(t, h.center.Id, view.CenterId)
	assert.Equal(t, models.ScheduleEnabled, view.Status)

	rec = h.do(t, http.MethodGet, "/api/schedules?center=zdm-main", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.ScheduleView
	decode(t, rec, &list)
	assert.Len(t, list, 1)

	rec = h.do(t, http.MethodGet, path+"/next-runs?count=3&from=2025-03-05T12:00:00Z", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var runs struct {
		NextRuns []time.Time `json:"nextRuns"`
	}
	decode(t, rec, &runs)
	require.Len(t, runs.NextRuns, 3)
	assert.True(t, runs.NextRuns[0].Equal(time.Date(2025, 3, 5, 23, 30, 0, 0, time.UTC)))
	assert.True(t, runs.NextRuns[2].Equal(time.Date(2025, 3, 7, 23, 30, 0, 0, time.UTC)))

	rec = h.do(t, http.MethodGet, path+"/next-runs?count=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPatch, path, map[string]string{"status": "Disabled"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &view)
	assert.Equal(t, models.ScheduleDisabled, view.Status)

	rec = h.do(t, http.MethodPatch, path, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodGet, path+"/next-runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &runs)
	assert.Empty(t, runs.NextRuns)
}

func TestRegisterScheduleRejects(t *testing.T) {
	h := newHarness(t, data.RandomIDSource())

	tests := []struct {
		name string
		body interface{}
		want int
	}{
		{"bad time", map[string]interface{}{
			"type": "DAILY", "increment": map[string]string{"time": "24:00"}, "center": "zdm-main", "jobName": "j",
		}, http.StatusBadRequest},
		{"unknown center", map[string]interface{}{
			"type": "DAILY", "increment": map[string]string{"time": "01:00"}, "center": "nowhere", "jobName": "j",
		}, http.StatusBadRequest},
		{"unknown type code", map[string]interface{}{
			"type": 99, "increment": map[string]string{"time": "01:00"}, "center": "zdm-main", "jobName": "j",
		}, http.StatusBadRequest},
		{"malformed body", `{"type":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodPost, "/api/schedules", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, errorBody(t, rec))
		})
	}

	rec := h.do(t, http.MethodGet, "/api/schedules/424242", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogRoutes(t *testing.T) {
	h := newHarness(t, data.RandomIDSource())

	rec := h.do(t, http.MethodPost, "/api/centers", models.CreateCenterRequest{Name: "dr-site"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = h.do(t, http.MethodPost, "/api/centers", models.CreateCenterRequest{Name: "dr-site"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/centers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var centers []models.Center
	decode(t, rec, &centers)
	assert.Len(t, centers, 2)

	rec = h.do(t, http.MethodPost, "/api/servers",
		`{"center":"dr-site","name":"db-01","os":"Linux","ipAddress":"10.0.0.5"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/api/servers/db-01?center=dr-site", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var srv models.Server
	decode(t, rec, &srv)
	assert.Equal(t, models.ServerOSLinux, srv.OS)

	rec = h.do(t, http.MethodGet, "/api/servers/db-01?center=zdm-main", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/servers", `{"center":"dr-site","name":"db-02","os":"Solaris"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// completeJob plays the external worker for correlationID.
func completeJob(jobs *data.JobRequestStore, correlationID int64, result, description string) <-chan error {
	done := make(chan error, 1)
	go func() {
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			err := jobs.Complete(context.Background(), correlationID, result, description)
			if !errors.IsNotFoundError(err) {
				done <- err
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
		done <- errors.New("request never appeared")
	}()
	return done
}

func TestLicenseRoutes(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newHarness(t, func() int64 { return 910 })
		done := completeJob(h.stores.Jobs, 910, models.JobResultSuccess, "")

		rec := h.do(t, http.MethodPost, "/api/licenses", models.LicenseRequest{Center: "zdm-main", LicenseKey: "KEY-1"})
		require.NoError(t, <-done)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var res models.LicenseResult
		decode(t, rec, &res)
		assert.True(t, res.Result)
		assert.Equal(t, int64(910), res.CorrelationID)

		rec = h.do(t, http.MethodGet, "/api/licenses?center=zdm-main", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list []models.License
		decode(t, rec, &list)
		require.Len(t, list, 1)
		assert.Equal(t, h.user.ID, list[0].AddedBy)
	})

	t.Run("worker failure", func(t *testing.T) {
		h := newHarness(t, func() int64 { return 911 })
		done := completeJob(h.stores.Jobs, 911, models.JobResultFailed, "license expired")

		rec := h.do(t, http.MethodPost, "/api/licenses/verify", models.LicenseRequest{Center: "zdm-main", LicenseKey: "KEY-2"})
		require.NoError(t, <-done)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, errorBody(t, rec), "license expired")
	})

	t.Run("no worker", func(t *testing.T) {
		h := newHarness(t, func() int64 { return 912 })

		rec := h.do(t, http.MethodPost, "/api/licenses", models.LicenseRequest{Center: "zdm-main", LicenseKey: "KEY-3"})
		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)

		// The request stays behind for the worker to pick up.
		rec = h.do(t, http.MethodGet, "/api/jobs/912", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var job models.JobInteractiveRequest
		decode(t, rec, &job)
		assert.Equal(t, models.JobWaiting, job.JobStatus)
		assert.Equal(t, models.JobTypeLicenseAdd, job.JobType)
	})

	t.Run("missing key", func(t *testing.T) {
		h := newHarness(t, data.RandomIDSource())
		rec := h.do(t, http.MethodPost, "/api/licenses", models.LicenseRequest{Center: "zdm-main"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
