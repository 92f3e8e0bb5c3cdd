package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zdm_server_go/data"
	"zdm_server_go/errors"
	"zdm_server_go/models"
)

// fakeJobStore answers reads from a script: the n-th read (1-based) at or
// after resultAfter returns result.
type fakeJobStore struct {
	mu          sync.Mutex
	rows        map[int64]*models.JobInteractiveRequest
	reads       int
	resultAfter int
	result      string
	description string
	status      models.JobStatus
	readErr     error
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{rows: map[int64]*models.JobInteractiveRequest{}}
}

func (s *fakeJobStore) CorrelationIDExists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[id]
	return ok, nil
}

func (s *fakeJobStore) Create(_ context.Context, req *models.JobInteractiveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *req
	s.rows[req.CorrelationId] = &cp
	return nil
}

func (s *fakeJobStore) GetByCorrelationID(_ context.Context, id int64) (*models.JobInteractiveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.readErr != nil {
		return nil, s.readErr
	}
	row, ok := s.rows[id]
	if !ok {
		return nil, errors.NewNotFoundError("job request %d", id)
	}
	cp := *row
	cp.JobStatus = s.status
	if s.resultAfter > 0 && s.reads >= s.resultAfter {
		cp.Result = s.result
		cp.Description = s.description
	}
	return &cp, nil
}

func (s *fakeJobStore) readCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func fastPoll() PollOptions {
	return PollOptions{Timeout: 300 * time.Millisecond, Interval: 5 * time.Millisecond}
}

func submission() JobSubmission {
	return JobSubmission{OwnerUserID: 1, CenterID: 2, JobType: models.JobTypeLicenseAdd, Payload: "{}"}
}

func TestSubmitAndWaitSuccess(t *testing.T) {
	store := newFakeJobStore()
	store.resultAfter, store.result = 3, models.JobResultSuccess
	p := NewPoller(store, data.NewIDAllocator(sequence(555), 0))

	res, err := p.SubmitAndWait(context.Background(), submission(), fastPoll())
	require.NoError(t, err)
	assert.True(t, res.Result)
	assert.Equal(t, int64(555), res.CorrelationID)
	assert.Equal(t, 3, store.readCount())

	created := store.rows[555]
	assert.Equal(t, models.JobWaiting, created.JobStatus)
	assert.Equal(t, defaultSystemName, created.SystemName)
	assert.Empty(t, created.Result)
}

func TestSubmitAndWaitRemoteFailure(t *testing.T) {
	store := newFakeJobStore()
	store.resultAfter, store.result, store.description = 1, models.JobResultFailed, "disk full"
	p := NewPoller(store, data.NewIDAllocator(sequence(9), 0))

	_, err := p.SubmitAndWait(context.Background(), submission(), fastPoll())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRemoteFailure))
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, errors.GetAllDetails(err), "disk full")
}

func TestSubmitAndWaitTimeout(t *testing.T) {
	store := newFakeJobStore()
	p := NewPoller(store, data.NewIDAllocator(sequence(9), 0))

	start := time.Now()
	_, err := p.SubmitAndWait(context.Background(), submission(), PollOptions{Timeout: 40 * time.Millisecond, Interval: 5 * time.Millisecond})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTimeout))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Greater(t, store.readCount(), 0)
}

func TestSubmitAndWaitIgnoresJobStatus(t *testing.T) {
	// The worker has flagged the job Completed but not written a result yet.
	store := newFakeJobStore()
	store.status = models.JobCompleted
	p := NewPoller(store, data.NewIDAllocator(sequence(9), 0))

	_, err := p.SubmitAndWait(context.Background(), submission(), PollOptions{Timeout: 30 * time.Millisecond, Interval: 5 * time.Millisecond})
	assert.True(t, errors.Is(err, errors.ErrTimeout))
}

func TestSubmitAndWaitReadError(t *testing.T) {
	store := newFakeJobStore()
	store.readErr = errors.New("database is locked")
	p := NewPoller(store, data.NewIDAllocator(sequence(9), 0))

	_, err := p.SubmitAndWait(context.Background(), submission(), fastPoll())
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.readErr))
	assert.False(t, errors.Is(err, errors.ErrTimeout))
	assert.Equal(t, 1, store.readCount())
}

func TestSubmitAndWaitContextCancelled(t *testing.T) {
	store := newFakeJobStore()
	p := NewPoller(store, data.NewIDAllocator(sequence(9), 0))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.SubmitAndWait(ctx, submission(), PollOptions{Timeout: time.Second, Interval: 5 * time.Millisecond})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPollOptionsDefaults(t *testing.T) {
	o := PollOptions{}.withDefaults()
	assert.Equal(t, DefaultPollTimeout, o.Timeout)
	assert.Equal(t, DefaultPollInterval, o.Interval)
}
