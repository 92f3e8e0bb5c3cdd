package data

import "github.com/jmoiron/sqlx"

// Stores groups every repository over one database.
type Stores struct {
	DB         *sqlx.DB
	Users      *UserStore
	Centers    *CenterStore
	Servers    *ServerStore
	Schedules  *ScheduleStore
	BackupJobs *BackupJobStore
	Jobs       *JobRequestStore
	Licenses   *LicenseStore
}

func NewStores(db *sqlx.DB) *Stores {
	return &Stores{
		DB:         db,
		Users:      NewUserStore(db),
		Centers:    NewCenterStore(db),
		Servers:    NewServerStore(db),
		Schedules:  NewScheduleStore(db),
		BackupJobs: NewBackupJobStore(db),
		Jobs:       NewJobRequestStore(db),
		Licenses:   NewLicenseStore(db),
	}
}
