package data

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"zdm_server_go/errors"
	"zdm_server_go/models"
)

// LicenseStore persists worker-confirmed licenses.
type LicenseStore struct {
	db *sqlx.DB
}

func NewLicenseStore(db *sqlx.DB) *LicenseStore {
	return &LicenseStore{db: db}
}

// Create inserts l. The same key twice in one center fails with ErrConflict.
func (s *LicenseStore) Create(ctx context.Context, l *models.License) error {
	l.CreatedAt = time.Now().UTC()
	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO Licenses (CenterId, LicenseKey, AddedBy, CreatedAt)
		 VALUES (:CenterId, :LicenseKey, :AddedBy, :CreatedAt)`, l)
	if err != nil {
		return classify(err, "LicenseStore.Create")
	}
	if l.Id, err = res.LastInsertId(); err != nil {
		return errors.Wrap(err, "LicenseStore.Create: last insert id")
	}
	return nil
}

func (s *LicenseStore) ListByCenter(ctx context.Context, centerID int64) ([]models.License, error) {
	licenses := []models.License{}
	err := s.db.SelectContext(ctx, &licenses,
		`SELECT Id, CenterId, LicenseKey, AddedBy, CreatedAt FROM Licenses WHERE CenterId = ? ORDER BY Id`, centerID)
	if err != nil {
		return nil, errors.Wrapf(err, "LicenseStore.ListByCenter: %d", centerID)
	}
	return licenses, nil
}
