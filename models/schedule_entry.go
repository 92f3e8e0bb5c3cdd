package models

import "time"

// RecurrenceSpec is a user-facing recurrence as submitted by the console.
// Masks are pipe-delimited "0"/"1" flags:
//
//	WeekdayMask      7  Monday..Sunday
//	WeekOfMonthMask  5  First, Second, Third, Fourth, Last
//	DateMask         31 day 1..31
//	MonthMask        12 January..December
type RecurrenceSpec struct {
	Type            RecurrenceType `json:"type"`
	Year            string         `json:"year,omitempty"`
	Month           string         `json:"month,omitempty"`
	Day             string         `json:"day,omitempty"`
	Time            string         `json:"time,omitempty"` // "HH:mm"
	WeekdayMask     string         `json:"weekdayMask,omitempty"`
	WeekOfMonthMask string         `json:"weekOfMonthMask,omitempty"`
	DateMask        string         `json:"dateMask,omitempty"`
	MonthMask       string         `json:"monthMask,omitempty"`
	IntervalMinutes int            `json:"intervalMinutes,omitempty"`
	IntervalHours   int            `json:"intervalHours,omitempty"`
}

// ScheduleRow is one row of Schedules. The mask columns use the same
// encoding as RecurrenceSpec and are shared with rows written by other
// tools, so the format must not change.
type ScheduleRow struct {
	Id              int64          `json:"id" db:"Id"`
	OwnerUserId     int64          `json:"ownerUserId" db:"OwnerUserId"`
	CenterId        int64          `json:"centerId" db:"CenterId"`
	Type            RecurrenceType `json:"type" db:"Type"`
	Status          ScheduleStatus `json:"status" db:"Status"`
	Year            string         `json:"year,omitempty" db:"Year"`
	Month           string         `json:"month,omitempty" db:"Month"`
	Day             string         `json:"day,omitempty" db:"Day"`
	Time            string         `json:"time,omitempty" db:"Time"`
	PeriodHours     int            `json:"periodHours,omitempty" db:"PeriodHours"`
	PeriodMinutes   int            `json:"periodMinutes,omitempty" db:"PeriodMinutes"`
	WeekdayMask     string         `json:"weekdayMask,omitempty" db:"WeekdayMask"`
	WeekOfMonthMask string         `json:"weekOfMonthMask,omitempty" db:"WeekOfMonthMask"`
	DateMask        string         `json:"dateMask,omitempty" db:"DateMask"`
	MonthMask       string         `json:"monthMask,omitempty" db:"MonthMask"`
	LastRunTime     *time.Time     `json:"lastRunTime,omitempty" db:"LastRunTime"`
	JobName         string         `json:"jobName" db:"JobName"`
	CreatedAt       time.Time      `json:"createdAt" db:"CreatedAt"`
}

// RecurrencePair is one registration unit. Basic types fill exactly one
// side; smart types fill both.
type RecurrencePair struct {
	Full      *ScheduleRow
	Increment *ScheduleRow
}

// Rows returns the populated rows, full first.
func (p RecurrencePair) Rows() []*ScheduleRow {
	rows := make([]*ScheduleRow, 0, 2)
	if p.Full != nil {
		rows = append(rows, p.Full)
	}
	if p.Increment != nil {
		rows = append(rows, p.Increment)
	}
	return rows
}

// ScheduleRegistration is the body of POST /api/schedules.
// Center is a numeric id or a center name; User is a numeric id or an email.
type ScheduleRegistration struct {
	Type      RecurrenceType  `json:"type"`
	Full      *RecurrenceSpec `json:"full,omitempty"`
	Increment *RecurrenceSpec `json:"increment,omitempty"`
	Center    string          `json:"center"`
	User      string          `json:"user,omitempty"`
	JobName   string          `json:"jobName"`
}

// ScheduleRegistrationResult is returned after a pair is persisted.
// ScheduleIDAdvanced is zero for basic types.
type ScheduleRegistrationResult struct {
	ScheduleID         int64             `json:"scheduleId"`
	ScheduleIDAdvanced int64             `json:"scheduleIdAdvanced,omitempty"`
	Type               RecurrenceType    `json:"type"`
	Descriptions       map[string]string `json:"descriptions"`
}

// ScheduleView is a stored row plus its rendered description.
type ScheduleView struct {
	ScheduleRow
	Description string `json:"description"`
}
