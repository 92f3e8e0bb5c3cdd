package recurrence

import (
	"fmt"
	"strings"

	"zdm_server_go/errors"
	"zdm_server_go/models"
)

const (
	labelBasic    = "[Basic]"
	labelAdvanced = "[Advanced]"
)

// Describe renders a stored row for display. Masks with no bits set render
// an empty list rather than failing. Unknown types fail with a
// ScheduleTypeError.
func Describe(row *models.ScheduleRow) (string, error) {
	t := row.Type
	if !t.Valid() {
		return "", errors.Wrapf(errors.NewScheduleTypeError(t.Code()), "describe schedule %d", row.Id)
	}

	label := labelBasic
	if t.IsSmart() && len(SetPositions(discriminatingMask(row))) != 1 {
		label = labelAdvanced
	}

	period := "every month"
	if t.IsCustom() {
		period = "in " + join(Labels(SetPositions(row.MonthMask), MonthLabels))
	}

	switch t.Base() {
	case models.RecurrenceOnce:
		return fmt.Sprintf("%s Start working on %s/%s/%s %s.", label, row.Day, row.Month, row.Year, row.Time), nil
	case models.RecurrenceEveryMinute:
		return fmt.Sprintf("%s Start working every %d minutes.", label, row.PeriodMinutes), nil
	case models.RecurrenceHourly:
		return fmt.Sprintf("%s Start working every %d hours.", label, row.PeriodHours), nil
	case models.RecurrenceDaily:
		return fmt.Sprintf("%s Start working every day at %s.", label, row.Time), nil
	case models.RecurrenceWeekly:
		days := join(Labels(SetPositions(row.WeekdayMask), WeekdayLabels))
		return fmt.Sprintf("%s Start working every %s at %s.", label, days, row.Time), nil
	case models.RecurrenceMonthlyOnSpecificWeek:
		weeks := join(Labels(SetPositions(row.WeekOfMonthMask), WeekOfMonthLabels))
		days := join(Labels(SetPositions(row.WeekdayMask), WeekdayLabels))
		return fmt.Sprintf("%s Start working %s in the %s week on %s at %s.", label, period, weeks, days, row.Time), nil
	case models.RecurrenceMonthlyOnSpecificDay:
		dates := join(DateLabels(SetPositions(row.DateMask)))
		return fmt.Sprintf("%s Start working %s on day %s at %s.", label, period, dates, row.Time), nil
	}
	return "", errors.Wrapf(errors.NewScheduleTypeError(t.Code()), "describe schedule %d", row.Id)
}

// discriminatingMask is the mask whose bit count decides Basic vs Advanced
// for smart types.
func discriminatingMask(row *models.ScheduleRow) string {
	switch row.Type {
	case models.RecurrenceSmartWeekly:
		return row.WeekdayMask
	case models.RecurrenceSmartMonthlyOnSpecificWeek:
		return row.WeekOfMonthMask
	case models.RecurrenceSmartMonthlyOnSpecificDay:
		return row.DateMask
	default:
		return row.MonthMask
	}
}

func join(labels []string) string {
	return strings.Join(labels, ", ")
}
