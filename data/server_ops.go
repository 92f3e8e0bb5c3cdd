package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"zdm_server_go/errors"
	"zdm_server_go/models"
)

const serverColumns = `Id, CenterId, Name, OS, IPAddress, CreatedAt`

// ServerStore persists protected servers.
type ServerStore struct {
	db *sqlx.DB
}

func NewServerStore(db *sqlx.DB) *ServerStore {
	return &ServerStore{db: db}
}

// Create inserts srv; names are unique within a center.
func (s *ServerStore) Create(ctx context.Context, srv *models.Server) error {
	srv.CreatedAt = time.Now().UTC()
	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO Servers (CenterId, Name, OS, IPAddress, CreatedAt)
		 VALUES (:CenterId, :Name, :OS, :IPAddress, :CreatedAt)`, srv)
	if err != nil {
		return classify(err, "ServerStore.Create: "+srv.Name)
	}
	if srv.Id, err = res.LastInsertId(); err != nil {
		return errors.Wrap(err, "ServerStore.Create: last insert id")
	}
	return nil
}

func (s *ServerStore) GetByID(ctx context.Context, id int64) (*models.Server, error) {
	srv := &models.Server{}
	if err := s.db.GetContext(ctx, srv, `SELECT `+serverColumns+` FROM Servers WHERE Id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("server %d", id)
		}
		return nil, errors.Wrapf(err, "ServerStore.GetByID: %d", id)
	}
	return srv, nil
}

// GetByName looks a server up by name inside one center.
func (s *ServerStore) GetByName(ctx context.Context, centerID int64, name string) (*models.Server, error) {
	srv := &models.Server{}
	err := s.db.GetContext(ctx, srv,
		`SELECT `+serverColumns+` FROM Servers WHERE CenterId = ? AND Name = ?`, centerID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("server %q in center %d", name, centerID)
		}
		return nil, errors.Wrapf(err, "ServerStore.GetByName: %s", name)
	}
	return srv, nil
}

func (s *ServerStore) ListByCenter(ctx context.Context, centerID int64) ([]models.Server, error) {
	servers := []models.Server{}
	err := s.db.SelectContext(ctx, &servers,
		`SELECT `+serverColumns+` FROM Servers WHERE CenterId = ? ORDER BY Name`, centerID)
	if err != nil {
		return nil, errors.Wrapf(err, "ServerStore.ListByCenter: %d", centerID)
	}
	return servers, nil
}
