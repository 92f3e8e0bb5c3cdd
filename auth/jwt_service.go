package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"zdm_server_go/errors"
)

// Claims структура для JWT, включающая стандартные и пользовательские поля.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService выпускает и проверяет HS256-токены.
type TokenService struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenService создает сервис; ключ берется из конфигурации.
func NewTokenService(secret string, ttl time.Duration, issuer string) *TokenService {
	return &TokenService{key: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}
}

// GenerateToken создает новый JWT для пользователя.
func (s *TokenService) GenerateToken(userID int64, email string) (string, time.Time, error) {
	now := s.now()
	expirationTime := now.Add(s.ttl)

	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "could not sign token")
	}
	return tokenString, expirationTime, nil
}

// ValidateToken проверяет JWT и возвращает claims, если токен валиден.
// Все отказы помечены ErrUnauthorized.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				return nil, errors.Wrap(errors.ErrUnauthorized, "token is malformed")
			case ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
				return nil, errors.Wrap(errors.ErrUnauthorized, "token is expired or not active yet")
			}
		}
		return nil, errors.Mark(errors.Wrap(err, "couldn't handle this token"), errors.ErrUnauthorized)
	}

	if !token.Valid {
		return nil, errors.Wrap(errors.ErrUnauthorized, "token is invalid")
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "unexpected issuer %q", claims.Issuer)
	}
	return claims, nil
}
