package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zdm_server_go/errors"
	"zdm_server_go/models"
)

func TestCatalogCenters(t *testing.T) {
	f := newFixture(t, sequence(1), 0)
	catalog := NewCatalogService(f.stores, NewResolver(f.stores))
	ctx := context.Background()

	c, err := catalog.CreateCenter(ctx, &models.CreateCenterRequest{Name: " zdm-b ", Description: "backup site"})
	require.NoError(t, err)
	assert.Equal(t, "zdm-b", c.Name)

	_, err = catalog.CreateCenter(ctx, &models.CreateCenterRequest{Name: "42"})
	assert.True(t, errors.IsInvalidRequestError(err))
	_, err = catalog.CreateCenter(ctx, &models.CreateCenterRequest{Name: "zdm-b"})
	assert.True(t, errors.Is(err, errors.ErrConflict))

	byID, err := catalog.Center(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "zdm-b", byID.Name)

	_, err = catalog.Center(ctx, "missing")
	assert.True(t, errors.IsNotFoundError(err))

	all, err := catalog.Centers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalogBackupJobWithSchedules(t *testing.T) {
	f := newFixture(t, sequence(100, 200), 0)
	catalog := NewCatalogService(f.stores, NewResolver(f.stores))
	ctx := context.Background()

	srv, err := catalog.CreateServer(ctx, &CreateServerRequest{Center: "zdm-main", Name: "db-01", OS: models.ServerOSWindows})
	require.NoError(t, err)
	_, err = catalog.CreateServer(ctx, &CreateServerRequest{Center: "zdm-main", Name: "db-02"})
	assert.True(t, errors.IsInvalidRequestError(err), "OS is required")

	reg, err := f.schedules.Register(ctx, &models.ScheduleRegistration{
		Type: models.RecurrenceSmartWeekly, Full: weekly(6), Increment: weekly(0, 2),
		Center: "zdm-main", User: "1", JobName: "db-01",
	})
	require.NoError(t, err)

	view, err := catalog.CreateBackupJob(ctx, &CreateBackupJobRequest{
		Center: "zdm-main", Server: "db-01", Name: "db-01 weekly",
		FullScheduleID: reg.ScheduleID, IncrementScheduleID: reg.ScheduleIDAdvanced,
	})
	require.NoError(t, err)
	assert.Equal(t, srv.Id, view.ServerId)
	require.NotNil(t, view.FullSchedule)
	require.NotNil(t, view.IncrementSchedule)
	assert.Equal(t, "[Basic] Start working every Sunday at 02:00.", view.FullSchedule.Description)
	assert.Equal(t, "[Advanced] Start working every Monday, Wednesday at 02:00.", view.IncrementSchedule.Description)

	_, err = catalog.CreateBackupJob(ctx, &CreateBackupJobRequest{
		Center: "zdm-main", Server: "db-01", Name: "dangling", FullScheduleID: 999,
	})
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = catalog.CreateBackupJob(ctx, &CreateBackupJobRequest{Center: "zdm-main", Server: "db-09", Name: "x"})
	assert.True(t, errors.IsInvalidRequestError(err))

	views, err := catalog.BackupJobs(ctx, "zdm-main")
	require.NoError(t, err)
	require.Len(t, views, 1)

	got, err := catalog.BackupJob(ctx, view.Id)
	require.NoError(t, err)
	assert.Equal(t, "db-01 weekly", got.Name)

	byName, err := catalog.Server(ctx, "zdm-main", "db-01")
	require.NoError(t, err)
	assert.Equal(t, srv.Id, byName.Id)
	_, err = catalog.Server(ctx, "", "db-01")
	assert.True(t, errors.IsInvalidRequestError(err))
}
