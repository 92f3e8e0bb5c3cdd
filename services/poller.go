package services

import (
	"context"
	"time"

	"zdm_server_go/data"
	"zdm_server_go/errors"
	"zdm_server_go/logger"
	"zdm_server_go/models"
)

// Poll defaults.
const (
	DefaultPollTimeout  = 5 * time.Second
	DefaultPollInterval = time.Second
	LicensePollInterval = 500 * time.Millisecond
	defaultSystemName   = "zdm_server_go"
)

// JobStore is what the poller needs from JobInteractiveRequests.
type JobStore interface {
	CorrelationIDExists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, req *models.JobInteractiveRequest) error
	GetByCorrelationID(ctx context.Context, id int64) (*models.JobInteractiveRequest, error)
}

// JobSubmission describes one request for the external worker.
type JobSubmission struct {
	OwnerUserID int64
	CenterID    int64
	SystemName  string
	JobType     models.JobType
	Payload     string
}

// PollOptions bound a wait. Zero values take the defaults.
type PollOptions struct {
	Timeout  time.Duration
	Interval time.Duration
}

func (o PollOptions) withDefaults() PollOptions {
	if o.Timeout <= 0 {
		o.Timeout = DefaultPollTimeout
	}
	if o.Interval <= 0 {
		o.Interval = DefaultPollInterval
	}
	return o
}

// PollResult is returned when the worker reports SUCCESS.
type PollResult struct {
	Result        bool   `json:"result"`
	CorrelationID int64  `json:"correlationId"`
	Description   string `json:"description,omitempty"`
}

// Poller hands work to the external worker through JobInteractiveRequests
// and waits for the worker to write a terminal result.
type Poller struct {
	store JobStore
	ids   *data.IDAllocator
}

func NewPoller(store JobStore, ids *data.IDAllocator) *Poller {
	return &Poller{store: store, ids: ids}
}

// SubmitAndWait inserts a Waiting request under a fresh correlation id and
// re-reads it every opts.Interval until Result is SUCCESS or FAILED, the
// timeout elapses, a read fails, or ctx is done. JobStatus is never used
// to decide completion.
func (p *Poller) SubmitAndWait(ctx context.Context, sub JobSubmission, opts PollOptions) (*PollResult, error) {
	opts = opts.withDefaults()
	log := logger.FromContext(ctx)

	correlationID, err := p.ids.Allocate(ctx, p.store.CorrelationIDExists)
	if err != nil {
		return nil, errors.Wrapf(err, "submit %s", sub.JobType)
	}

	systemName := sub.SystemName
	if systemName == "" {
		systemName = defaultSystemName
	}
	req := &models.JobInteractiveRequest{
		CorrelationId: correlationID,
		OwnerUserId:   sub.OwnerUserID,
		CenterId:      sub.CenterID,
		SystemName:    systemName,
		JobType:       sub.JobType,
		JobStatus:     models.JobWaiting,
		Payload:       sub.Payload,
	}
	if err := p.store.Create(ctx, req); err != nil {
		return nil, wrapOp(err, sub.JobType.String()+" request", "create")
	}
	log.Debugw("job submitted", "job_type", sub.JobType.String(), "correlation_id", correlationID)

	timer := time.NewTimer(opts.Timeout)
	defer timer.Stop()
	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "%s job %d", sub.JobType, correlationID)

		case <-timer.C:
			log.Warnw("job timed out", "job_type", sub.JobType.String(), "correlation_id", correlationID, "timeout", opts.Timeout)
			return nil, errors.Wrapf(errors.ErrTimeout, "%s job %d: no result after %s", sub.JobType, correlationID, opts.Timeout)

		case <-ticker.C:
			cur, err := p.store.GetByCorrelationID(ctx, correlationID)
			if err != nil {
				return nil, errors.Wrapf(err, "poll %s job %d", sub.JobType, correlationID)
			}
			switch cur.Result {
			case models.JobResultSuccess:
				log.Infow("job succeeded", "job_type", sub.JobType.String(), "correlation_id", correlationID)
				return &PollResult{Result: true, CorrelationID: correlationID, Description: cur.Description}, nil
			case models.JobResultFailed:
				log.Warnw("job failed", "job_type", sub.JobType.String(), "correlation_id", correlationID, "description", cur.Description)
				return nil, errors.WithDetail(
					errors.Wrapf(errors.ErrRemoteFailure, "%s job %d: %s", sub.JobType, correlationID, cur.Description),
					cur.Description)
			}
		}
	}
}
