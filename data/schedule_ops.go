package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"zdm_server_go/errors"
	"zdm_server_go/models"
)

const scheduleColumns = `Id, OwnerUserId, CenterId, Type, Status, Year, Month, Day, Time,
	PeriodHours, PeriodMinutes, WeekdayMask, WeekOfMonthMask, DateMask, MonthMask,
	LastRunTime, JobName, CreatedAt`

// ScheduleStore persists Schedules rows.
type ScheduleStore struct {
	db *sqlx.DB
}

func NewScheduleStore(db *sqlx.DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

// Beginx opens the transaction a multi-row registration runs in.
func (s *ScheduleStore) Beginx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "ScheduleStore.Beginx")
	}
	return tx, nil
}

// ExistsWithTx reports whether a schedule with id exists, as seen by tx.
func (s *ScheduleStore) ExistsWithTx(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(1) FROM Schedules WHERE Id = ?`, id); err != nil {
		return false, errors.Wrapf(err, "ExistsWithTx: schedule %d", id)
	}
	return n > 0, nil
}

// InsertWithTx inserts row with its pre-assigned Id.
func (s *ScheduleStore) InsertWithTx(ctx context.Context, tx *sqlx.Tx, row *models.ScheduleRow) error {
	if row.Id <= 0 {
		return errors.NewInvalidRequestError("InsertWithTx: schedule id must be assigned before insert")
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO Schedules (` + scheduleColumns + `)
	          VALUES (:Id, :OwnerUserId, :CenterId, :Type, :Status, :Year, :Month, :Day, :Time,
	                  :PeriodHours, :PeriodMinutes, :WeekdayMask, :WeekOfMonthMask, :DateMask, :MonthMask,
	                  :LastRunTime, :JobName, :CreatedAt)`
	if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
		return classify(err, "InsertWithTx: schedule "+itoa(row.Id))
	}
	return nil
}

// GetByID returns the schedule or an ErrNotFound error.
func (s *ScheduleStore) GetByID(ctx context.Context, id int64) (*models.ScheduleRow, error) {
	row := &models.ScheduleRow{}
	err := s.db.GetContext(ctx, row, `SELECT `+scheduleColumns+` FROM Schedules WHERE Id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("schedule %d", id)
		}
		return nil, errors.Wrapf(err, "GetByID: schedule %d", id)
	}
	return row, nil
}

// ListByCenter returns a center's schedules ordered by creation.
func (s *ScheduleStore) ListByCenter(ctx context.Context, centerID int64) ([]models.ScheduleRow, error) {
	rows := []models.ScheduleRow{}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+scheduleColumns+` FROM Schedules WHERE CenterId = ? ORDER BY CreatedAt ASC, Id ASC`, centerID)
	if err != nil {
		return nil, errors.Wrapf(err, "ListByCenter: schedules of center %d", centerID)
	}
	return rows, nil
}

// SetStatus enables or disables a schedule.
func (s *ScheduleStore) SetStatus(ctx context.Context, id int64, status models.ScheduleStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE Schedules SET Status = ? WHERE Id = ?`, status.Code(), id)
	if err != nil {
		return errors.Wrapf(err, "SetStatus: schedule %d", id)
	}
	return requireAffected(res, "schedule %d", id)
}
