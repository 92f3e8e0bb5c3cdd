package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"zdm_server_go/errors"
	"zdm_server_go/models"
)

const backupJobColumns = `Id, CenterId, ServerId, Name, FullScheduleId, IncrementScheduleId, CreatedAt`

// BackupJobStore persists backup jobs.
type BackupJobStore struct {
	db *sqlx.DB
}

func NewBackupJobStore(db *sqlx.DB) *BackupJobStore {
	return &BackupJobStore{db: db}
}

func (s *BackupJobStore) Create(ctx context.Context, job *models.BackupJob) error {
	job.CreatedAt = time.Now().UTC()
	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO BackupJobs (CenterId, ServerId, Name, FullScheduleId, IncrementScheduleId, CreatedAt)
		 VALUES (:CenterId, :ServerId, :Name, :FullScheduleId, :IncrementScheduleId, :CreatedAt)`, job)
	if err != nil {
		return classify(err, "BackupJobStore.Create: "+job.Name)
	}
	if job.Id, err = res.LastInsertId(); err != nil {
		return errors.Wrap(err, "BackupJobStore.Create: last insert id")
	}
	return nil
}

func (s *BackupJobStore) GetByID(ctx context.Context, id int64) (*models.BackupJob, error) {
	job := &models.BackupJob{}
	if err := s.db.GetContext(ctx, job, `SELECT `+backupJobColumns+` FROM BackupJobs WHERE Id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("backup job %d", id)
		}
		return nil, errors.Wrapf(err, "BackupJobStore.GetByID: %d", id)
	}
	return job, nil
}

func (s *BackupJobStore) ListByCenter(ctx context.Context, centerID int64) ([]models.BackupJob, error) {
	jobs := []models.BackupJob{}
	err := s.db.SelectContext(ctx, &jobs,
		`SELECT `+backupJobColumns+` FROM BackupJobs WHERE CenterId = ? ORDER BY Name`, centerID)
	if err != nil {
		return nil, errors.Wrapf(err, "BackupJobStore.ListByCenter: %d", centerID)
	}
	return jobs, nil
}
