package data_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zdm_server_go/data"
	"zdm_server_go/data/datatest"
	"zdm_server_go/errors"
	"zdm_server_go/models"
)

func TestScheduleStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := datatest.NewDB(t)
	center := datatest.SeedCenter(t, db, "zdm-east")
	store := data.NewScheduleStore(db)

	tx, err := store.Beginx(ctx)
	require.NoError(t, err)
	row := &models.ScheduleRow{
		Id: 4242, CenterId: center.Id, OwnerUserId: 1, JobName: "nightly",
		Type: models.RecurrenceSmartWeekly, Status: models.ScheduleEnabled,
		Time: "02:00", WeekdayMask: "0|1|0|0|0|0|0",
	}
	exists, err := store.ExistsWithTx(ctx, tx, row.Id)
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, store.InsertWithTx(ctx, tx, row))
	exists, err = store.ExistsWithTx(ctx, tx, row.Id)
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, tx.Commit())

	got, err := store.GetByID(ctx, 4242)
	require.NoError(t, err)
	assert.Equal(t, models.RecurrenceSmartWeekly, got.Type)
	assert.Equal(t, "0|1|0|0|0|0|0", got.WeekdayMask)
	assert.Equal(t, "nightly", got.JobName)
	assert.Nil(t, got.LastRunTime)

	list, err := store.ListByCenter(ctx, center.Id)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, store.SetStatus(ctx, 4242, models.ScheduleDisabled))
	got, err = store.GetByID(ctx, 4242)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleDisabled, got.Status)

	_, err = store.GetByID(ctx, 1)
	assert.True(t, errors.IsNotFoundError(err))
	assert.True(t, errors.IsNotFoundError(store.SetStatus(ctx, 1, models.ScheduleEnabled)))
}

func TestScheduleStoreDuplicateIDConflicts(t *testing.T) {
	ctx := context.Background()
	db := datatest.NewDB(t)
	center := datatest.SeedCenter(t, db, "zdm")
	store := data.NewScheduleStore(db)

	tx, err := store.Beginx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	row := models.ScheduleRow{Id: 9, CenterId: center.Id, JobName: "a", Type: models.RecurrenceDaily, Time: "01:00"}
	require.NoError(t, store.InsertWithTx(ctx, tx, &row))
	dup := row
	err = store.InsertWithTx(ctx, tx, &dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestScheduleStoreUnknownCenterIsInvalid(t *testing.T) {
	ctx := context.Background()
	store := data.NewScheduleStore(datatest.NewDB(t))
	tx, err := store.Beginx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	err = store.InsertWithTx(ctx, tx, &models.ScheduleRow{Id: 1, CenterId: 404, JobName: "x", Type: models.RecurrenceDaily})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestJobRequestStore(t *testing.T) {
	ctx := context.Background()
	store := data.NewJobRequestStore(datatest.NewDB(t))

	req := &models.JobInteractiveRequest{
		CorrelationId: 77, OwnerUserId: 1, CenterId: 2, SystemName: "zdm",
		JobType: models.JobTypeLicenseAdd, JobStatus: models.JobWaiting, Payload: `{"licenseKey":"K"}`,
	}
	require.NoError(t, store.Create(ctx, req))
	assert.NotZero(t, req.Id)

	exists, err := store.CorrelationIDExists(ctx, 77)
	require.NoError(t, err)
	assert.True(t, exists)

	dup := *req
	assert.True(t, errors.Is(store.Create(ctx, &dup), errors.ErrConflict))

	got, err := store.GetByCorrelationID(ctx, 77)
	require.NoError(t, err)
	assert.False(t, got.Terminal())
	assert.Equal(t, models.JobTypeLicenseAdd, got.JobType)

	require.NoError(t, store.Complete(ctx, 77, models.JobResultFailed, "disk full"))
	got, err = store.GetByCorrelationID(ctx, 77)
	require.NoError(t, err)
	assert.True(t, got.Terminal())
	assert.Equal(t, models.JobError, got.JobStatus)
	assert.Equal(t, "disk full", got.Description)

	assert.True(t, errors.IsInvalidRequestError(store.Complete(ctx, 77, "MAYBE", "")))
	assert.True(t, errors.IsNotFoundError(store.Complete(ctx, 78, models.JobResultSuccess, "")))
	_, err = store.GetByCorrelationID(ctx, 78)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestCatalogStores(t *testing.T) {
	ctx := context.Background()
	db := datatest.NewDB(t)
	stores := data.NewStores(db)

	center := datatest.SeedCenter(t, db, "zdm-west")
	assert.True(t, errors.Is(stores.Centers.Create(ctx, &models.Center{Name: "zdm-west"}), errors.ErrConflict))

	byName, err := stores.Centers.GetByName(ctx, "zdm-west")
	require.NoError(t, err)
	assert.Equal(t, center.Id, byName.Id)
	_, err = stores.Centers.GetByName(ctx, "nope")
	assert.True(t, errors.IsNotFoundError(err))

	user := datatest.SeedUser(t, db, "Ops@Example.com")
	got, err := stores.Users.GetByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	srv := datatest.SeedServer(t, db, center.Id, "db-01")
	gotSrv, err := stores.Servers.GetByName(ctx, center.Id, "db-01")
	require.NoError(t, err)
	assert.Equal(t, srv.Id, gotSrv.Id)
	assert.Equal(t, models.ServerOSLinux, gotSrv.OS)

	job := &models.BackupJob{CenterEntity: models.CenterEntity{CenterId: center.Id}, ServerId: srv.Id, Name: "db-01 nightly"}
	require.NoError(t, stores.BackupJobs.Create(ctx, job))
	jobs, err := stores.BackupJobs.ListByCenter(ctx, center.Id)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Zero(t, jobs[0].FullScheduleId)

	lic := &models.License{CenterEntity: models.CenterEntity{CenterId: center.Id}, LicenseKey: "AAAA-BBBB", AddedBy: user.ID}
	require.NoError(t, stores.Licenses.Create(ctx, lic))
	dupLic := *lic
	assert.True(t, errors.Is(stores.Licenses.Create(ctx, &dupLic), errors.ErrConflict))
	licenses, err := stores.Licenses.ListByCenter(ctx, center.Id)
	require.NoError(t, err)
	assert.Len(t, licenses, 1)
}
