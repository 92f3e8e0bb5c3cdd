package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"zdm_server_go/data"
	"zdm_server_go/errors"
	"zdm_server_go/logger"
	"zdm_server_go/models"
	"zdm_server_go/recurrence"
)

// MaxNextRuns caps a next-run preview.
const MaxNextRuns = 100

// ScheduleService registers and reads backup schedules.
type ScheduleService struct {
	schedules *data.ScheduleStore
	resolver  *Resolver
	ids       *data.IDAllocator
	now       func() time.Time
}

func NewScheduleService(stores *data.Stores, resolver *Resolver, ids *data.IDAllocator) *ScheduleService {
	return &ScheduleService{
		schedules: stores.Schedules,
		resolver:  resolver,
		ids:       ids,
		now:       time.Now,
	}
}

// Register validates reg, resolves its center and user, and stores one row
// (basic types) or a full/increment pair with distinct ids (smart types)
// in a single transaction.
func (s *ScheduleService) Register(ctx context.Context, reg *models.ScheduleRegistration) (*models.ScheduleRegistrationResult, error) {
	log := logger.FromContext(ctx)

	pair, err := recurrence.ValidatePair(reg.Type, reg.Full, reg.Increment)
	if err != nil {
		return nil, err
	}
	jobName := strings.TrimSpace(reg.JobName)
	if jobName == "" {
		return nil, errors.NewValidationError("jobName is required", "jobName", "")
	}

	center, user, err := s.resolver.registrationParties(ctx, reg.Center, reg.User)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	for _, row := range pair.Rows() {
		row.CenterId = center.Id
		row.OwnerUserId = user.ID
		row.JobName = jobName
		row.CreatedAt = now
	}

	if err := s.persist(ctx, pair); err != nil {
		return nil, err
	}

	result := &models.ScheduleRegistrationResult{
		Type:         reg.Type,
		Descriptions: make(map[string]string, 2),
	}
	if pair.Full != nil {
		result.ScheduleID = pair.Full.Id
		if result.Descriptions["full"], err = recurrence.Describe(pair.Full); err != nil {
			return nil, err
		}
	}
	if pair.Increment != nil {
		if reg.Type.IsSmart() {
			result.ScheduleIDAdvanced = pair.Increment.Id
		} else {
			result.ScheduleID = pair.Increment.Id
		}
		if result.Descriptions["increment"], err = recurrence.Describe(pair.Increment); err != nil {
			return nil, err
		}
	}

	log.Infow("schedule registered",
		"type", reg.Type.String(),
		"center_id", center.Id,
		"schedule_id", result.ScheduleID,
		"schedule_id_advanced", result.ScheduleIDAdvanced)
	return result, nil
}

// persist allocates ids and inserts every row of pair in one transaction.
func (s *ScheduleService) persist(ctx context.Context, pair *models.RecurrencePair) error {
	tx, err := s.schedules.Beginx(ctx)
	if err != nil {
		return wrapOp(err, "schedule", "begin")
	}
	defer tx.Rollback()

	exists := func(ctx context.Context, id int64) (bool, error) {
		return s.schedules.ExistsWithTx(ctx, tx, id)
	}

	var used []int64
	for _, row := range pair.Rows() {
		id, err := s.ids.Allocate(ctx, exists, used...)
		if err != nil {
			if errors.Is(err, errors.ErrResourceExhausted) {
				return errors.Wrapf(err, "allocate %s schedule id", row.Type)
			}
			return wrapOp(err, row.Type.String()+" schedule", "allocate id for")
		}
		row.Id = id
		used = append(used, id)

		if err := s.schedules.InsertWithTx(ctx, tx, row); err != nil {
			return wrapOp(err, row.Type.String()+" schedule", "insert")
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapOp(err, pair.Rows()[0].Type.String()+" schedule", "commit")
	}
	return nil
}

// Get returns a stored schedule with its description.
func (s *ScheduleService) Get(ctx context.Context, id int64) (*models.ScheduleView, error) {
	row, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	desc, err := recurrence.Describe(row)
	if err != nil {
		return nil, err
	}
	return &models.ScheduleView{ScheduleRow: *row, Description: desc}, nil
}

// ListByCenter returns a center's schedules. A row whose type cannot be
// described is listed with an empty description.
func (s *ScheduleService) ListByCenter(ctx context.Context, centerRef string) ([]models.ScheduleView, error) {
	center, err := s.resolver.Center(ctx, centerRef)
	if err != nil {
		return nil, err
	}
	rows, err := s.schedules.ListByCenter(ctx, center.Id)
	if err != nil {
		return nil, err
	}

	views := make([]models.ScheduleView, 0, len(rows))
	for i := range rows {
		desc, err := recurrence.Describe(&rows[i])
		if err != nil {
			logger.FromContext(ctx).Warnw("schedule not describable", "schedule_id", rows[i].Id, "error", err)
		}
		views = append(views, models.ScheduleView{ScheduleRow: rows[i], Description: desc})
	}
	return views, nil
}

// NextRuns previews the next n activations of schedule id after from.
// Disabled schedules have none.
func (s *ScheduleService) NextRuns(ctx context.Context, id int64, n int, from time.Time) ([]time.Time, error) {
	if n < 1 || n > MaxNextRuns {
		return nil, errors.NewValidationError("count must be in [1,"+strconv.Itoa(MaxNextRuns)+"]", "count", strconv.Itoa(n))
	}
	row, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Status == models.ScheduleDisabled {
		return []time.Time{}, nil
	}
	return recurrence.NextRuns(row, from, n)
}

// SetEnabled toggles a schedule's status.
func (s *ScheduleService) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	status := models.ScheduleDisabled
	if enabled {
		status = models.ScheduleEnabled
	}
	return s.schedules.SetStatus(ctx, id, status)
}
