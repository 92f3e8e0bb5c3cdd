package auth

import (
	"golang.org/x/crypto/bcrypt"

	"zdm_server_go/errors"
)

// HashPassword генерирует хеш bcrypt для пароля.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.NewValidationError("password is required", "password", "")
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(bytes), nil
}

// CheckPasswordHash сравнивает пароль с хешем.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
