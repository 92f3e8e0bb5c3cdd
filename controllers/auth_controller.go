package controllers

import (
	"net/http"
	"strings"
	"time"

	"zdm_server_go/auth"
	"zdm_server_go/data"
	"zdm_server_go/errors"
	"zdm_server_go/middleware"
	"zdm_server_go/models"
)

// AuthController выдает токены операторам консоли.
type AuthController struct {
	users  *data.UserStore
	tokens *auth.TokenService
}

func NewAuthController(users *data.UserStore, tokens *auth.TokenService) *AuthController {
	return &AuthController{users: users, tokens: tokens}
}

// Login обрабатывает вход пользователя.
// Пример URL: POST /api/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(w, r, errors.NewValidationError("email and password are required", "email", req.Email))
		return
	}

	user, err := c.users.GetByEmail(r.Context(), req.Email)
	if err != nil && !errors.IsNotFoundError(err) {
		respondError(w, r, err)
		return
	}
	// Одинаковый ответ для неизвестного email и неверного пароля.
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		respondError(w, r, errors.Wrap(errors.ErrUnauthorized, "invalid email or password"))
		return
	}

	token, expiresAt, err := c.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, models.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      publicInfo(user),
	})
}

// Me возвращает текущего пользователя.
// Пример URL: GET /api/auth/me
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, r, errors.ErrUnauthorized)
		return
	}
	user, err := c.users.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, publicInfo(user))
}

func publicInfo(u *models.User) models.UserPublicInfo {
	return models.UserPublicInfo{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}
