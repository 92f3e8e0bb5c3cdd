package recurrence

import "zdm_server_go/models"

// Encode maps a validated spec onto a new Enabled row. Only the fields the
// type uses are copied; masks are re-emitted in canonical form.
func Encode(spec *models.RecurrenceSpec) *models.ScheduleRow {
	row := &models.ScheduleRow{
		Type:   spec.Type,
		Status: models.ScheduleEnabled,
	}

	switch spec.Type.Base() {
	case models.RecurrenceOnce:
		row.Year, row.Month, row.Day, row.Time = spec.Year, spec.Month, spec.Day, spec.Time
	case models.RecurrenceEveryMinute:
		row.PeriodMinutes = spec.IntervalMinutes
	case models.RecurrenceHourly:
		row.PeriodHours = spec.IntervalHours
	case models.RecurrenceDaily:
		row.Time = spec.Time
	case models.RecurrenceWeekly:
		row.Time = spec.Time
		row.WeekdayMask = canonical(spec.WeekdayMask, WeekdayWidth)
	case models.RecurrenceMonthlyOnSpecificWeek:
		row.Time = spec.Time
		row.WeekOfMonthMask = canonical(spec.WeekOfMonthMask, WeekOfMonthWidth)
		row.WeekdayMask = canonical(spec.WeekdayMask, WeekdayWidth)
	case models.RecurrenceMonthlyOnSpecificDay:
		row.Time = spec.Time
		row.DateMask = canonical(spec.DateMask, DateWidth)
	}

	if spec.Type.IsCustom() {
		row.MonthMask = canonical(spec.MonthMask, MonthWidth)
	}
	return row
}

func canonical(mask string, width int) string {
	return EncodeMask(width, SetPositions(mask)...)
}
