package models

import "time"

// Terminal values of JobInteractiveRequest.Result.
const (
	JobResultSuccess = "SUCCESS"
	JobResultFailed  = "FAILED"
)

// JobInteractiveRequest is a work request handed to the external worker.
// The requester inserts it as Waiting; only the worker updates it.
type JobInteractiveRequest struct {
	Id             int64     `json:"id" db:"Id"`
	CorrelationId  int64     `json:"correlationId" db:"CorrelationId"`
	OwnerUserId    int64     `json:"ownerUserId" db:"OwnerUserId"`
	CenterId       int64     `json:"centerId" db:"CenterId"`
	SystemName     string    `json:"systemName" db:"SystemName"`
	JobType        JobType   `json:"jobType" db:"JobType"`
	JobStatus      JobStatus `json:"jobStatus" db:"JobStatus"`
	Payload        string    `json:"payload" db:"Payload"`
	Result         string    `json:"result" db:"Result"`
	Description    string    `json:"description" db:"Description"`
	LastUpdateTime time.Time `json:"lastUpdateTime" db:"LastUpdateTime"`
}

// Terminal reports whether the worker has written a terminal result.
func (r *JobInteractiveRequest) Terminal() bool {
	return r.Result == JobResultSuccess || r.Result == JobResultFailed
}
