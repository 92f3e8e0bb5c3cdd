package models

import (
	"encoding/json"
	"strconv"
	"strings"

	"zdm_server_go/errors"
)

// RecurrenceType is the persisted schedule kind (Schedules.Type, 0..11).
// Types 0..6 are basic; 7..11 are "smart" types that register a
// full/increment pair.
type RecurrenceType int

const (
	RecurrenceOnce RecurrenceType = iota
	RecurrenceEveryMinute
	RecurrenceHourly
	RecurrenceDaily
	RecurrenceWeekly
	RecurrenceMonthlyOnSpecificWeek
	RecurrenceMonthlyOnSpecificDay
	RecurrenceSmartWeekly
	RecurrenceSmartMonthlyOnSpecificWeek
	RecurrenceSmartMonthlyOnSpecificDay
	RecurrenceSmartCustomMonthlyOnSpecificWeek
	RecurrenceSmartCustomMonthlyOnSpecificDay
)

var recurrenceTypeNames = [...]string{
	"ONCE",
	"EVERY_MINUTE",
	"HOURLY",
	"DAILY",
	"WEEKLY",
	"MONTHLY_ON_SPECIFIC_WEEK",
	"MONTHLY_ON_SPECIFIC_DAY",
	"SMART_WEEKLY",
	"SMART_MONTHLY_ON_SPECIFIC_WEEK",
	"SMART_MONTHLY_ON_SPECIFIC_DAY",
	"SMART_CUSTOM_MONTHLY_ON_SPECIFIC_WEEK",
	"SMART_CUSTOM_MONTHLY_ON_SPECIFIC_DAY",
}

// Code returns the stored integer code.
func (t RecurrenceType) Code() int { return int(t) }

// Valid reports whether t is one of the twelve known types.
func (t RecurrenceType) Valid() bool {
	return t >= RecurrenceOnce && int(t) < len(recurrenceTypeNames)
}

// IsSmart reports whether t registers a full/increment pair.
func (t RecurrenceType) IsSmart() bool { return t >= RecurrenceSmartWeekly && t.Valid() }

// IsCustom reports whether t carries a month mask.
func (t RecurrenceType) IsCustom() bool {
	return t == RecurrenceSmartCustomMonthlyOnSpecificWeek || t == RecurrenceSmartCustomMonthlyOnSpecificDay
}

// Base maps a smart type onto the basic type whose fields it uses.
// Basic types map to themselves.
func (t RecurrenceType) Base() RecurrenceType {
	switch t {
	case RecurrenceSmartWeekly:
		return RecurrenceWeekly
	case RecurrenceSmartMonthlyOnSpecificWeek, RecurrenceSmartCustomMonthlyOnSpecificWeek:
		return RecurrenceMonthlyOnSpecificWeek
	case RecurrenceSmartMonthlyOnSpecificDay, RecurrenceSmartCustomMonthlyOnSpecificDay:
		return RecurrenceMonthlyOnSpecificDay
	default:
		return t
	}
}

func (t RecurrenceType) String() string {
	if !t.Valid() {
		return "RecurrenceType(" + strconv.Itoa(int(t)) + ")"
	}
	return recurrenceTypeNames[t]
}

// RecurrenceTypeFromCode converts a stored code, failing on unknown values.
func RecurrenceTypeFromCode(code int) (RecurrenceType, error) {
	t := RecurrenceType(code)
	if !t.Valid() {
		return 0, errors.NewScheduleTypeError(code)
	}
	return t, nil
}

// ParseRecurrenceType accepts a type name (case-insensitive) or its numeric code.
func ParseRecurrenceType(s string) (RecurrenceType, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return RecurrenceTypeFromCode(n)
	}
	for i, name := range recurrenceTypeNames {
		if strings.EqualFold(name, s) {
			return RecurrenceType(i), nil
		}
	}
	return 0, errors.NewInvalidRequestError("unknown recurrence type %q", s)
}

func (t RecurrenceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Code())
}

// UnmarshalJSON accepts either the numeric code or the type name.
func (t *RecurrenceType) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		parsed, err := RecurrenceTypeFromCode(n)
		if err != nil {
			return errors.Mark(err, errors.ErrInvalidRequest)
		}
		*t = parsed
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.NewInvalidRequestError("recurrence type must be a number or a name")
	}
	parsed, err := ParseRecurrenceType(s)
	if err != nil {
		return errors.Mark(err, errors.ErrInvalidRequest)
	}
	*t = parsed
	return nil
}
