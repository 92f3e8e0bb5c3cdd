package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"zdm_server_go/auth"
	"zdm_server_go/logger"
)

type contextKey string

// userIDKey - ключ для хранения ID пользователя в контексте запроса.
const userIDKey contextKey = "userID"

// emailKey - ключ для хранения email пользователя в контексте запроса.
const emailKey contextKey = "email"

// TokenValidator реализуется *auth.TokenService.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// UserID возвращает ID пользователя, сохраненный JWT.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// Email возвращает email пользователя, сохраненный JWT.
func Email(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

// WithUser сохраняет пользователя в контексте.
func WithUser(ctx context.Context, userID int64, email string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, emailKey, email)
}

// JWT проверяет наличие и валидность JWT в заголовке Authorization.
// Если токен валиден, ID и email пользователя добавляются в контекст
// запроса, а логгер запроса дополняется полем user_id.
func JWT(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContext(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Debugw("missing Authorization header", "path", r.URL.Path)
				writeError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Debugw("malformed Authorization header", "path", r.URL.Path)
				writeError(w, http.StatusUnauthorized, "Authorization header must be Bearer {token}")
				return
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				log.Infow("rejected token", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := WithUser(r.Context(), claims.UserID, claims.Email)
			ctx = logger.WithContext(ctx, log.With("user_id", claims.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
