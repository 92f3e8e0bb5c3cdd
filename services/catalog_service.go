package services

import (
	"context"
	"strconv"
	"strings"

	"zdm_server_go/data"
	"zdm_server_go/errors"
	"zdm_server_go/logger"
	"zdm_server_go/models"
	"zdm_server_go/recurrence"
)

// CatalogService manages centers, servers and backup jobs.
type CatalogService struct {
	stores   *data.Stores
	resolver *Resolver
}

func NewCatalogService(stores *data.Stores, resolver *Resolver) *CatalogService {
	return &CatalogService{stores: stores, resolver: resolver}
}

func (s *CatalogService) CreateCenter(ctx context.Context, req *models.CreateCenterRequest) (*models.Center, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.NewValidationError("name is required", "name", "")
	}
	if _, ok := numericRef(name); ok {
		return nil, errors.NewValidationError("name must not be numeric", "name", name)
	}
	c := &models.Center{Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.stores.Centers.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Infow("center created", "center_id", c.Id, "name", c.Name)
	return c, nil
}

func (s *CatalogService) Center(ctx context.Context, ref string) (*models.Center, error) {
	return s.resolver.Center(ctx, ref)
}

func (s *CatalogService) Centers(ctx context.Context) ([]models.Center, error) {
	return s.stores.Centers.List(ctx)
}

// CreateServerRequest is the body of POST /api/servers.
type CreateServerRequest struct {
	Center    string          `json:"center"`
	Name      string          `json:"name"`
	OS        models.ServerOS `json:"os"`
	IPAddress string          `json:"ipAddress"`
}

func (s *CatalogService) CreateServer(ctx context.Context, req *CreateServerRequest) (*models.Server, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.NewValidationError("name is required", "name", "")
	}
	if _, err := models.ServerOSFromCode(req.OS.Code()); err != nil {
		return nil, err
	}
	center, err := s.resolver.Center(ctx, req.Center)
	if err != nil {
		return nil, unresolved(err, "center", req.Center)
	}
	srv := &models.Server{
		CenterEntity: models.CenterEntity{CenterId: center.Id},
		Name:         name,
		OS:           req.OS,
		IPAddress:    strings.TrimSpace(req.IPAddress),
	}
	if err := s.stores.Servers.Create(ctx, srv); err != nil {
		return nil, err
	}
	return srv, nil
}

// Server resolves ref; centerRef is needed only when ref is a name.
func (s *CatalogService) Server(ctx context.Context, centerRef, ref string) (*models.Server, error) {
	var centerID int64
	if strings.TrimSpace(centerRef) != "" {
		center, err := s.resolver.Center(ctx, centerRef)
		if err != nil {
			return nil, err
		}
		centerID = center.Id
	}
	return s.resolver.Server(ctx, centerID, ref)
}

func (s *CatalogService) Servers(ctx context.Context, centerRef string) ([]models.Server, error) {
	center, err := s.resolver.Center(ctx, centerRef)
	if err != nil {
		return nil, err
	}
	return s.stores.Servers.ListByCenter(ctx, center.Id)
}

// CreateBackupJobRequest is the body of POST /api/backups. Schedule ids are
// the ids returned by schedule registration; zero leaves that side empty.
type CreateBackupJobRequest struct {
	Center              string `json:"center"`
	Server              string `json:"server"`
	Name                string `json:"name"`
	FullScheduleID      int64  `json:"fullScheduleId"`
	IncrementScheduleID int64  `json:"incrementScheduleId"`
}

func (s *CatalogService) CreateBackupJob(ctx context.Context, req *CreateBackupJobRequest) (*models.BackupJobView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.NewValidationError("name is required", "name", "")
	}
	center, err := s.resolver.Center(ctx, req.Center)
	if err != nil {
		return nil, unresolved(err, "center", req.Center)
	}
	srv, err := s.resolver.Server(ctx, center.Id, req.Server)
	if err != nil {
		return nil, unresolved(err, "server", req.Server)
	}
	for _, id := range []int64{req.FullScheduleID, req.IncrementScheduleID} {
		if id == 0 {
			continue
		}
		row, err := s.stores.Schedules.GetByID(ctx, id)
		if err != nil {
			return nil, unresolved(err, "schedule", strconv.FormatInt(id, 10))
		}
		if row.CenterId != center.Id {
			return nil, errors.NewInvalidRequestError("schedule %d belongs to another center", id)
		}
	}

	job := &models.BackupJob{
		CenterEntity:        models.CenterEntity{CenterId: center.Id},
		ServerId:            srv.Id,
		Name:                name,
		FullScheduleId:      req.FullScheduleID,
		IncrementScheduleId: req.IncrementScheduleID,
	}
	if err := s.stores.BackupJobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return s.view(ctx, job)
}

func (s *CatalogService) BackupJob(ctx context.Context, id int64) (*models.BackupJobView, error) {
	job, err := s.stores.BackupJobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, job)
}

func (s *CatalogService) BackupJobs(ctx context.Context, centerRef string) ([]models.BackupJobView, error) {
	center, err := s.resolver.Center(ctx, centerRef)
	if err != nil {
		return nil, err
	}
	jobs, err := s.stores.BackupJobs.ListByCenter(ctx, center.Id)
	if err != nil {
		return nil, err
	}
	views := make([]models.BackupJobView, 0, len(jobs))
	for i := range jobs {
		v, err := s.view(ctx, &jobs[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// view attaches described schedules. A schedule deleted since the job was
// created is left out.
func (s *CatalogService) view(ctx context.Context, job *models.BackupJob) (*models.BackupJobView, error) {
	v := &models.BackupJobView{BackupJob: *job}
	var err error
	if v.FullSchedule, err = s.scheduleView(ctx, job.FullScheduleId); err != nil {
		return nil, err
	}
	if v.IncrementSchedule, err = s.scheduleView(ctx, job.IncrementScheduleId); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *CatalogService) scheduleView(ctx context.Context, id int64) (*models.ScheduleView, error) {
	if id == 0 {
		return nil, nil
	}
	row, err := s.stores.Schedules.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	desc, err := recurrence.Describe(row)
	if err != nil {
		return nil, err
	}
	return &models.ScheduleView{ScheduleRow: *row, Description: desc}, nil
}
