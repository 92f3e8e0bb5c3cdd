package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"zdm_server_go/logger"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestContext gives every request an id (the caller's X-Request-ID or a
// new UUID) and a logger tagged with it, then logs the outcome.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		log := logger.Logger.With("request_id", id, "method", r.Method, "path", r.URL.Path)
		ctx := logger.WithContext(r.Context(), log)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		log.Infow("request handled", "status", rec.status, "duration", time.Since(start))
	})
}
