// Package datatest opens throwaway in-memory databases for tests.
package datatest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"zdm_server_go/data"
	"zdm_server_go/models"
)

// NewDB returns a migrated in-memory database closed at test cleanup.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := data.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SeedCenter inserts a center named name.
func SeedCenter(t testing.TB, db *sqlx.DB, name string) *models.Center {
	t.Helper()
	c := &models.Center{Name: name}
	require.NoError(t, data.NewCenterStore(db).Create(context.Background(), c))
	return c
}

// SeedUser inserts a user with a placeholder password hash.
func SeedUser(t testing.TB, db *sqlx.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, DisplayName: email, PasswordHash: "x"}
	require.NoError(t, data.NewUserStore(db).Create(context.Background(), u))
	return u
}

// SeedServer inserts a Linux server under center.
func SeedServer(t testing.TB, db *sqlx.DB, centerID int64, name string) *models.Server {
	t.Helper()
	s := &models.Server{CenterEntity: models.CenterEntity{CenterId: centerID}, Name: name, OS: models.ServerOSLinux}
	require.NoError(t, data.NewServerStore(db).Create(context.Background(), s))
	return s
}
