package models

import "time"

// BackupJob links a server to its full/increment schedules.
// A zero schedule id means that side is not scheduled.
type BackupJob struct {
	Id int64 `json:"id" db:"Id"`
	CenterEntity
	ServerId            int64     `json:"serverId" db:"ServerId"`
	Name                string    `json:"name" db:"Name"`
	FullScheduleId      int64     `json:"fullScheduleId" db:"FullScheduleId"`
	IncrementScheduleId int64     `json:"incrementScheduleId" db:"IncrementScheduleId"`
	CreatedAt           time.Time `json:"createdAt" db:"CreatedAt"`
}

// BackupJobView is a backup job with its schedules described.
type BackupJobView struct {
	BackupJob
	FullSchedule      *ScheduleView `json:"fullSchedule,omitempty"`
	IncrementSchedule *ScheduleView `json:"incrementSchedule,omitempty"`
}
