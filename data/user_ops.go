package data

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"zdm_server_go/errors"
	"zdm_server_go/models"
)

const userColumns = `Id, Email, DisplayName, PasswordHash, CreatedAt, UpdatedAt`

// UserStore хранит операторов консоли. Пароль хешируется до вызова Create.
type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// Create создает пользователя; user.PasswordHash уже должен быть хешем.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO Users (Email, DisplayName, PasswordHash, CreatedAt, UpdatedAt)
		 VALUES (:Email, :DisplayName, :PasswordHash, :CreatedAt, :UpdatedAt)`, user)
	if err != nil {
		return classify(err, "UserStore.Create: "+user.Email)
	}
	if user.ID, err = res.LastInsertId(); err != nil {
		return errors.Wrap(err, "UserStore.Create: last insert id")
	}
	return nil
}

// GetByEmail извлекает пользователя по email (без учета регистра).
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	email = strings.ToLower(strings.TrimSpace(email))
	err := s.db.GetContext(ctx, user, `SELECT `+userColumns+` FROM Users WHERE Email = ?`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("user %q", email)
		}
		return nil, errors.Wrapf(err, "GetByEmail: %s", email)
	}
	return user, nil
}

// GetByID извлекает пользователя по ID.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	err := s.db.GetContext(ctx, user, `SELECT `+userColumns+` FROM Users WHERE Id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("user %d", id)
		}
		return nil, errors.Wrapf(err, "GetByID: user %d", id)
	}
	return user, nil
}
