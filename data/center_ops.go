package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"zdm_server_go/errors"
	"zdm_server_go/models"
)

// CenterStore persists Centers.
type CenterStore struct {
	db *sqlx.DB
}

func NewCenterStore(db *sqlx.DB) *CenterStore {
	return &CenterStore{db: db}
}

// Create inserts c and sets its Id and CreatedAt. Names are unique.
func (s *CenterStore) Create(ctx context.Context, c *models.Center) error {
	c.CreatedAt = time.Now().UTC()
	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO Centers (Name, Description, CreatedAt) VALUES (:Name, :Description, :CreatedAt)`, c)
	if err != nil {
		return classify(err, "CenterStore.Create: "+c.Name)
	}
	if c.Id, err = res.LastInsertId(); err != nil {
		return errors.Wrap(err, "CenterStore.Create: last insert id")
	}
	return nil
}

func (s *CenterStore) GetByID(ctx context.Context, id int64) (*models.Center, error) {
	return s.get(ctx, `SELECT Id, Name, Description, CreatedAt FROM Centers WHERE Id = ?`, id, "center %d")
}

func (s *CenterStore) GetByName(ctx context.Context, name string) (*models.Center, error) {
	return s.get(ctx, `SELECT Id, Name, Description, CreatedAt FROM Centers WHERE Name = ?`, name, "center %q")
}

func (s *CenterStore) get(ctx context.Context, query string, key interface{}, what string) (*models.Center, error) {
	c := &models.Center{}
	if err := s.db.GetContext(ctx, c, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError(what, key)
		}
		return nil, errors.Wrapf(err, "CenterStore: get "+what, key)
	}
	return c, nil
}

// List returns every center ordered by name.
func (s *CenterStore) List(ctx context.Context) ([]models.Center, error) {
	centers := []models.Center{}
	if err := s.db.SelectContext(ctx, &centers, `SELECT Id, Name, Description, CreatedAt FROM Centers ORDER BY Name`); err != nil {
		return nil, errors.Wrap(err, "CenterStore.List")
	}
	return centers, nil
}
