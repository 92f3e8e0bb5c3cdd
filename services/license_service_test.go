package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zdm_server_go/data"
	"zdm_server_go/errors"
	"zdm_server_go/models"
)

// completeLater plays the external worker: it writes result for
// correlationID as soon as the request row exists.
func completeLater(t *testing.T, jobs *data.JobRequestStore, correlationID int64, result, description string) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			err := jobs.Complete(context.Background(), correlationID, result, description)
			if err == nil || !errors.IsNotFoundError(err) {
				done <- err
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
		done <- errors.New("request never appeared")
	}()
	return done
}

func newLicenseService(f *fixture, correlationID int64) *LicenseService {
	poller := NewPoller(f.stores.Jobs, data.NewIDAllocator(sequence(correlationID), 0))
	return NewLicenseService(f.stores, NewResolver(f.stores), poller,
		PollOptions{Timeout: 2 * time.Second, Interval: 10 * time.Millisecond})
}

func TestLicenseAddStoresOnSuccess(t *testing.T) {
	f := newFixture(t, sequence(1), 0)
	svc := newLicenseService(f, 700)
	done := completeLater(t, f.stores.Jobs, 700, models.JobResultSuccess, "")

	res, err := svc.Add(context.Background(), &models.LicenseRequest{Center: "zdm-main", User: "ops@example.com", LicenseKey: " KEY-1 "})
	require.NoError(t, err)
	require.NoError(t, <-done)
	assert.True(t, res.Result)
	assert.Equal(t, int64(700), res.CorrelationID)
	require.NotNil(t, res.License)
	assert.Equal(t, "KEY-1", res.License.LicenseKey)
	assert.Equal(t, f.user.ID, res.License.AddedBy)

	req, err := f.stores.Jobs.GetByCorrelationID(context.Background(), 700)
	require.NoError(t, err)
	assert.Equal(t, models.JobTypeLicenseAdd, req.JobType)
	assert.JSONEq(t, `{"licenseKey":"KEY-1","center":"zdm-main"}`, req.Payload)

	list, err := svc.List(context.Background(), "zdm-main")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLicenseAddWorkerFailure(t *testing.T) {
	f := newFixture(t, sequence(1), 0)
	svc := newLicenseService(f, 701)
	done := completeLater(t, f.stores.Jobs, 701, models.JobResultFailed, "disk full")

	_, err := svc.Add(context.Background(), &models.LicenseRequest{Center: "zdm-main", User: "1", LicenseKey: "KEY-2"})
	require.NoError(t, <-done)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRemoteFailure))
	assert.Contains(t, err.Error(), "disk full")

	list, err := svc.List(context.Background(), "zdm-main")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLicenseVerify(t *testing.T) {
	f := newFixture(t, sequence(1), 0)
	svc := newLicenseService(f, 702)
	done := completeLater(t, f.stores.Jobs, 702, models.JobResultSuccess, "valid until 2030")

	res, err := svc.Verify(context.Background(), &models.LicenseRequest{Center: "zdm-main", User: "1", LicenseKey: "KEY-3"})
	require.NoError(t, err)
	require.NoError(t, <-done)
	assert.True(t, res.Result)
	assert.Nil(t, res.License)

	req, err := f.stores.Jobs.GetByCorrelationID(context.Background(), 702)
	require.NoError(t, err)
	assert.Equal(t, models.JobTypeLicenseVerify, req.JobType)
}

func TestLicenseRequestValidation(t *testing.T) {
	f := newFixture(t, sequence(1), 0)
	svc := newLicenseService(f, 703)

	_, err := svc.Add(context.Background(), &models.LicenseRequest{Center: "zdm-main", User: "1"})
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = svc.Add(context.Background(), &models.LicenseRequest{Center: "elsewhere", User: "1", LicenseKey: "K"})
	assert.True(t, errors.IsInvalidRequestError(err))

	exists, err := f.stores.Jobs.CorrelationIDExists(context.Background(), 703)
	require.NoError(t, err)
	assert.False(t, exists, "nothing is submitted for a rejected request")
}
