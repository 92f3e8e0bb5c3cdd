package models

import (
	"encoding/json"
	"strconv"
	"strings"

	"zdm_server_go/errors"
)

// Every enum here follows one policy: Code() and String() are total, and
// the reverse lookups fail with ErrInvalidRequest on anything unknown.

func lookupName(names map[int]string, s string) (int, bool) {
	for code, name := range names {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return code, true
		}
	}
	return 0, false
}

func unmarshalEnum(b []byte, names map[int]string, kind string) (int, error) {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		if _, ok := names[n]; ok {
			return n, nil
		}
		return 0, errors.NewInvalidRequestError("unknown %s code %d", kind, n)
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return 0, errors.NewInvalidRequestError("%s must be a number or a name", kind)
	}
	if code, ok := lookupName(names, s); ok {
		return code, nil
	}
	return 0, errors.NewInvalidRequestError("unknown %s %q", kind, s)
}

// --- ScheduleStatus ---

// ScheduleStatus is Schedules.Status.
type ScheduleStatus int

const (
	ScheduleDisabled ScheduleStatus = 0
	ScheduleEnabled  ScheduleStatus = 1
)

var scheduleStatusNames = map[int]string{
	int(ScheduleDisabled): "Disabled",
	int(ScheduleEnabled):  "Enabled",
}

func (s ScheduleStatus) Code() int { return int(s) }

func (s ScheduleStatus) String() string {
	if name, ok := scheduleStatusNames[int(s)]; ok {
		return name
	}
	return "ScheduleStatus(" + strconv.Itoa(int(s)) + ")"
}

func ScheduleStatusFromCode(code int) (ScheduleStatus, error) {
	if _, ok := scheduleStatusNames[code]; !ok {
		return 0, errors.NewInvalidRequestError("unknown schedule status code %d", code)
	}
	return ScheduleStatus(code), nil
}

func (s ScheduleStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *ScheduleStatus) UnmarshalJSON(b []byte) error {
	code, err := unmarshalEnum(b, scheduleStatusNames, "schedule status")
	if err != nil {
		return err
	}
	*s = ScheduleStatus(code)
	return nil
}

// --- JobStatus ---

// JobStatus is JobInteractiveRequests.JobStatus. Only the external worker
// moves it past Waiting; the poller never reads it.
type JobStatus int

const (
	JobWaiting JobStatus = iota
	JobRunning
	JobCompleted
	JobError
)

var jobStatusNames = map[int]string{
	int(JobWaiting):   "Waiting",
	int(JobRunning):   "Running",
	int(JobCompleted): "Completed",
	int(JobError):     "Error",
}

func (s JobStatus) Code() int { return int(s) }

func (s JobStatus) String() string {
	if name, ok := jobStatusNames[int(s)]; ok {
		return name
	}
	return "JobStatus(" + strconv.Itoa(int(s)) + ")"
}

func JobStatusFromCode(code int) (JobStatus, error) {
	if _, ok := jobStatusNames[code]; !ok {
		return 0, errors.NewInvalidRequestError("unknown job status code %d", code)
	}
	return JobStatus(code), nil
}

func ParseJobStatus(s string) (JobStatus, error) {
	if code, ok := lookupName(jobStatusNames, s); ok {
		return JobStatus(code), nil
	}
	return 0, errors.NewInvalidRequestError("unknown job status %q", s)
}

func (s JobStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *JobStatus) UnmarshalJSON(b []byte) error {
	code, err := unmarshalEnum(b, jobStatusNames, "job status")
	if err != nil {
		return err
	}
	*s = JobStatus(code)
	return nil
}

// --- JobType ---

// JobType is the work-request catalog code the external worker dispatches on.
type JobType int

const (
	JobTypeLicenseAdd     JobType = 101
	JobTypeLicenseVerify  JobType = 102
	JobTypeLicenseDelete  JobType = 103
	JobTypeServerRegister JobType = 201
	JobTypeServerRefresh  JobType = 202
	JobTypeScheduleSync   JobType = 301
	JobTypeBackupRun      JobType = 401
	JobTypeBackupCancel   JobType = 402
	JobTypeRestoreRun     JobType = 501
	JobTypeCenterSync     JobType = 601
)

var jobTypeNames = map[int]string{
	int(JobTypeLicenseAdd):     "LICENSE_ADD",
	int(JobTypeLicenseVerify):  "LICENSE_VERIFY",
	int(JobTypeLicenseDelete):  "LICENSE_DELETE",
	int(JobTypeServerRegister): "SERVER_REGISTER",
	int(JobTypeServerRefresh):  "SERVER_REFRESH",
	int(JobTypeScheduleSync):   "SCHEDULE_SYNC",
	int(JobTypeBackupRun):      "BACKUP_RUN",
	int(JobTypeBackupCancel):   "BACKUP_CANCEL",
	int(JobTypeRestoreRun):     "RESTORE_RUN",
	int(JobTypeCenterSync):     "CENTER_SYNC",
}

func (t JobType) Code() int { return int(t) }

func (t JobType) String() string {
	if name, ok := jobTypeNames[int(t)]; ok {
		return name
	}
	return "JobType(" + strconv.Itoa(int(t)) + ")"
}

func JobTypeFromCode(code int) (JobType, error) {
	if _, ok := jobTypeNames[code]; !ok {
		return 0, errors.NewInvalidRequestError("unknown job type code %d", code)
	}
	return JobType(code), nil
}

func ParseJobType(s string) (JobType, error) {
	if code, ok := lookupName(jobTypeNames, s); ok {
		return JobType(code), nil
	}
	return 0, errors.NewInvalidRequestError("unknown job type %q", s)
}

func (t JobType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *JobType) UnmarshalJSON(b []byte) error {
	code, err := unmarshalEnum(b, jobTypeNames, "job type")
	if err != nil {
		return err
	}
	*t = JobType(code)
	return nil
}

// --- ServerOS ---

type ServerOS int

const (
	ServerOSWindows ServerOS = 1
	ServerOSLinux   ServerOS = 2
)

var serverOSNames = map[int]string{
	int(ServerOSWindows): "Windows",
	int(ServerOSLinux):   "Linux",
}

func (o ServerOS) Code() int { return int(o) }

func (o ServerOS) String() string {
	if name, ok := serverOSNames[int(o)]; ok {
		return name
	}
	return "ServerOS(" + strconv.Itoa(int(o)) + ")"
}

func ServerOSFromCode(code int) (ServerOS, error) {
	if _, ok := serverOSNames[code]; !ok {
		return 0, errors.NewInvalidRequestError("unknown server OS code %d", code)
	}
	return ServerOS(code), nil
}

func (o ServerOS) MarshalJSON() ([]byte, error) { return json.Marshal(o.String()) }

func (o *ServerOS) UnmarshalJSON(b []byte) error {
	code, err := unmarshalEnum(b, serverOSNames, "server OS")
	if err != nil {
		return err
	}
	*o = ServerOS(code)
	return nil
}
