package services

import (
	"context"
	"encoding/json"
	"strings"

	"zdm_server_go/data"
	"zdm_server_go/errors"
	"zdm_server_go/logger"
	"zdm_server_go/models"
)

// LicenseService forwards license operations to the worker and records the
// licenses it accepts.
type LicenseService struct {
	resolver *Resolver
	licenses *data.LicenseStore
	poller   *Poller
	opts     PollOptions
}

func NewLicenseService(stores *data.Stores, resolver *Resolver, poller *Poller, opts PollOptions) *LicenseService {
	if opts.Interval <= 0 {
		opts.Interval = LicensePollInterval
	}
	return &LicenseService{resolver: resolver, licenses: stores.Licenses, poller: poller, opts: opts}
}

type licensePayload struct {
	LicenseKey string `json:"licenseKey"`
	Center     string `json:"center"`
}

func (s *LicenseService) submit(ctx context.Context, req *models.LicenseRequest, jobType models.JobType) (*models.Center, *models.User, *PollResult, error) {
	key := strings.TrimSpace(req.LicenseKey)
	if key == "" {
		return nil, nil, nil, errors.NewValidationError("licenseKey is required", "licenseKey", "")
	}
	center, user, err := s.resolver.registrationParties(ctx, req.Center, req.User)
	if err != nil {
		return nil, nil, nil, err
	}
	payload, err := json.Marshal(licensePayload{LicenseKey: key, Center: center.Name})
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "encode license payload")
	}

	res, err := s.poller.SubmitAndWait(ctx, JobSubmission{
		OwnerUserID: user.ID,
		CenterID:    center.Id,
		JobType:     jobType,
		Payload:     string(payload),
	}, s.opts)
	if err != nil {
		return nil, nil, nil, err
	}
	return center, user, res, nil
}

// Add asks the worker to install the license and stores it once the worker
// reports SUCCESS.
func (s *LicenseService) Add(ctx context.Context, req *models.LicenseRequest) (*models.LicenseResult, error) {
	center, user, res, err := s.submit(ctx, req, models.JobTypeLicenseAdd)
	if err != nil {
		return nil, err
	}

	lic := &models.License{
		CenterEntity: models.CenterEntity{CenterId: center.Id},
		LicenseKey:   strings.TrimSpace(req.LicenseKey),
		AddedBy:      user.ID,
	}
	if err := s.licenses.Create(ctx, lic); err != nil {
		if errors.Is(err, errors.ErrConflict) {
			return nil, err
		}
		return nil, wrapOp(err, "license", "store")
	}
	logger.FromContext(ctx).Infow("license added", "center_id", center.Id, "license_id", lic.Id, "correlation_id", res.CorrelationID)
	return &models.LicenseResult{Result: true, CorrelationID: res.CorrelationID, License: lic}, nil
}

// Verify asks the worker to check a license without storing anything.
func (s *LicenseService) Verify(ctx context.Context, req *models.LicenseRequest) (*models.LicenseResult, error) {
	_, _, res, err := s.submit(ctx, req, models.JobTypeLicenseVerify)
	if err != nil {
		return nil, err
	}
	return &models.LicenseResult{Result: true, CorrelationID: res.CorrelationID}, nil
}

func (s *LicenseService) List(ctx context.Context, centerRef string) ([]models.License, error) {
	center, err := s.resolver.Center(ctx, centerRef)
	if err != nil {
		return nil, err
	}
	return s.licenses.ListByCenter(ctx, center.Id)
}
