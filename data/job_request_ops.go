package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"zdm_server_go/errors"
	"zdm_server_go/models"
)

const jobRequestColumns = `Id, CorrelationId, OwnerUserId, CenterId, SystemName, JobType, JobStatus,
	Payload, Result, Description, LastUpdateTime`

// JobRequestStore persists JobInteractiveRequests. The requester only
// inserts; Complete exists for the worker side (and the CLI that stands in
// for it).
type JobRequestStore struct {
	db *sqlx.DB
}

func NewJobRequestStore(db *sqlx.DB) *JobRequestStore {
	return &JobRequestStore{db: db}
}

// CorrelationIDExists reports whether a request already uses id.
func (s *JobRequestStore) CorrelationIDExists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM JobInteractiveRequests WHERE CorrelationId = ?`, id); err != nil {
		return false, errors.Wrapf(err, "CorrelationIDExists: %d", id)
	}
	return n > 0, nil
}

// Create inserts req and sets its Id. A duplicate CorrelationId fails with
// ErrConflict.
func (s *JobRequestStore) Create(ctx context.Context, req *models.JobInteractiveRequest) error {
	if req.LastUpdateTime.IsZero() {
		req.LastUpdateTime = time.Now().UTC()
	}
	query := `INSERT INTO JobInteractiveRequests (CorrelationId, OwnerUserId, CenterId, SystemName, JobType, JobStatus,
	              Payload, Result, Description, LastUpdateTime)
	          VALUES (:CorrelationId, :OwnerUserId, :CenterId, :SystemName, :JobType, :JobStatus,
	              :Payload, :Result, :Description, :LastUpdateTime)`
	res, err := s.db.NamedExecContext(ctx, query, req)
	if err != nil {
		return classify(err, "Create: job request "+itoa(req.CorrelationId))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "Create: last insert id")
	}
	req.Id = id
	return nil
}

// GetByCorrelationID returns the request or an ErrNotFound error.
func (s *JobRequestStore) GetByCorrelationID(ctx context.Context, id int64) (*models.JobInteractiveRequest, error) {
	req := &models.JobInteractiveRequest{}
	err := s.db.GetContext(ctx, req,
		`SELECT `+jobRequestColumns+` FROM JobInteractiveRequests WHERE CorrelationId = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("job request %d", id)
		}
		return nil, errors.Wrapf(err, "GetByCorrelationID: %d", id)
	}
	return req, nil
}

// Complete writes a terminal result the way the external worker does.
func (s *JobRequestStore) Complete(ctx context.Context, correlationID int64, result, description string) error {
	status := models.JobCompleted
	switch result {
	case models.JobResultSuccess:
	case models.JobResultFailed:
		status = models.JobError
	default:
		return errors.NewInvalidRequestError("result must be %s or %s, got %q",
			models.JobResultSuccess, models.JobResultFailed, result)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE JobInteractiveRequests SET JobStatus = ?, Result = ?, Description = ?, LastUpdateTime = ?
		 WHERE CorrelationId = ?`,
		status.Code(), result, description, time.Now().UTC(), correlationID)
	if err != nil {
		return errors.Wrapf(err, "Complete: job request %d", correlationID)
	}
	return requireAffected(res, "job request %d", correlationID)
}
