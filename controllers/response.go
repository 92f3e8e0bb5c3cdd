package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"zdm_server_go/errors"
	"zdm_server_go/logger"
)

// respondJSON пишет payload как JSON с кодом statusCode.
func respondJSON(w http.ResponseWriter, r *http.Request, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Заголовки уже отправлены, остается только залогировать.
		logger.FromContext(r.Context()).Errorw("encode response", "error", err)
	}
}

// respondError отвечает {"error": "..."} с кодом из statusFor. Детали
// внутренних ошибок остаются в логе.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	log := logger.FromContext(r.Context())

	message := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway && status != http.StatusGatewayTimeout {
		log.Errorw("request failed", "status", status, "error", err)
		message = http.StatusText(status)
	} else {
		log.Infow("request rejected", "status", status, "error", err)
	}
	respondJSON(w, r, status, map[string]string{"error": message})
}

// statusFor сопоставляет ошибки домена с HTTP-статусами.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errors.ErrDataProcessing):
		return http.StatusInternalServerError
	// Неизвестный код типа в теле запроса несет обе метки.
	case errors.Is(err, errors.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrScheduleType):
		return http.StatusInternalServerError
	case errors.Is(err, errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errors.ErrResourceExhausted):
		return http.StatusServiceUnavailable
	case errors.IsAny(err, errors.ErrTimeout, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errors.ErrRemoteFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Mark(errors.Wrap(err, "invalid request body"), errors.ErrInvalidRequest)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError(name+" must be a positive integer", name, raw)
	}
	return id, nil
}
