package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"zdm_server_go/errors"
	"zdm_server_go/models"
)

// searchHorizon bounds the day-by-day search of schedules cron cannot express.
const searchHorizon = 5 * 366 * 24 * time.Hour

// CronSchedule returns a cron.Schedule that fires when row fires, evaluated
// in loc. Types expressible in standard cron syntax go through the robfig
// parser; ONCE and the week-of-month types use schedules defined here.
func CronSchedule(row *models.ScheduleRow, loc *time.Location) (cron.Schedule, error) {
	if loc == nil {
		loc = time.Local
	}
	t := row.Type
	if !t.Valid() {
		return nil, errors.NewScheduleTypeError(t.Code())
	}

	switch t.Base() {
	case models.RecurrenceOnce:
		return onceScheduleFor(row, loc)
	case models.RecurrenceEveryMinute:
		return periodic(row, "periodMinutes", row.PeriodMinutes, time.Minute)
	case models.RecurrenceHourly:
		return periodic(row, "periodHours", row.PeriodHours, time.Hour)
	}

	hour, minute, err := clock(row.Time)
	if err != nil {
		return nil, err
	}
	// A stored row with an empty selection is valid to display but never fires.
	if selectionEmpty(row) {
		return neverSchedule{}, nil
	}
	months := "*"
	if t.IsCustom() {
		months = cronList(SetPositions(row.MonthMask), 1)
	}

	switch t.Base() {
	case models.RecurrenceDaily:
		return parseSpec(fmt.Sprintf("%d %d * * *", minute, hour), loc)
	case models.RecurrenceWeekly:
		return parseSpec(fmt.Sprintf("%d %d * * %s", minute, hour, cronWeekdays(SetPositions(row.WeekdayMask))), loc)
	case models.RecurrenceMonthlyOnSpecificDay:
		return parseSpec(fmt.Sprintf("%d %d %s %s *", minute, hour, cronList(SetPositions(row.DateMask), 1), months), loc)
	case models.RecurrenceMonthlyOnSpecificWeek:
		s := &weekOfMonthSchedule{hour: hour, minute: minute, loc: loc}
		for _, p := range SetPositions(row.WeekOfMonthMask) {
			if p < WeekOfMonthWidth {
				s.weeks[p] = true
			}
		}
		for _, p := range SetPositions(row.WeekdayMask) {
			if p < WeekdayWidth {
				s.weekdays[mondayFirst(p)] = true
			}
		}
		if t.IsCustom() {
			for _, p := range SetPositions(row.MonthMask) {
				if p < MonthWidth {
					s.months[p] = true
				}
			}
		} else {
			for i := range s.months {
				s.months[i] = true
			}
		}
		return s, nil
	}
	return nil, errors.NewScheduleTypeError(t.Code())
}

// NextRuns returns up to n activation times strictly after from.
func NextRuns(row *models.ScheduleRow, from time.Time, n int) ([]time.Time, error) {
	sched, err := CronSchedule(row, from.Location())
	if err != nil {
		return nil, err
	}
	runs := make([]time.Time, 0, n)
	next := from
	for len(runs) < n {
		next = sched.Next(next)
		if next.IsZero() {
			break
		}
		runs = append(runs, next)
	}
	return runs, nil
}

func parseSpec(spec string, loc *time.Location) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, errors.Wrapf(err, "parse cron spec %q", spec)
	}
	if s, ok := sched.(*cron.SpecSchedule); ok {
		s.Location = loc
	}
	return sched, nil
}

func clock(hhmm string) (int, int, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return 0, 0, errors.NewValidationError("time must be HH:mm (00:00-23:59)", "time", hhmm)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, errors.NewValidationError("time must be HH:mm (00:00-23:59)", "time", hhmm)
	}
	return h, m, nil
}

func selectionEmpty(row *models.ScheduleRow) bool {
	var masks []string
	switch row.Type.Base() {
	case models.RecurrenceWeekly:
		masks = append(masks, row.WeekdayMask)
	case models.RecurrenceMonthlyOnSpecificWeek:
		masks = append(masks, row.WeekOfMonthMask, row.WeekdayMask)
	case models.RecurrenceMonthlyOnSpecificDay:
		masks = append(masks, row.DateMask)
	}
	if row.Type.IsCustom() {
		masks = append(masks, row.MonthMask)
	}
	for _, m := range masks {
		if len(SetPositions(m)) == 0 {
			return true
		}
	}
	return false
}

// cronList renders positions as a comma list offset by base ("1,15").
func cronList(positions []int, base int) string {
	vals := make([]string, len(positions))
	for i, p := range positions {
		vals[i] = strconv.Itoa(p + base)
	}
	return strings.Join(vals, ",")
}

func cronWeekdays(positions []int) string {
	vals := make([]string, len(positions))
	for i, p := range positions {
		vals[i] = strconv.Itoa(int(mondayFirst(p)))
	}
	return strings.Join(vals, ",")
}

// mondayFirst converts a weekday-mask position (0 = Monday) to time.Weekday.
func mondayFirst(p int) time.Weekday {
	return time.Weekday((p + 1) % 7)
}

// periodic fires every n units. Runs are counted from the row's CreatedAt;
// a row without one is counted from the query time.
func periodic(row *models.ScheduleRow, field string, n int, unit time.Duration) (cron.Schedule, error) {
	if n <= 0 {
		return nil, errors.NewValidationError("period must be positive", field, strconv.Itoa(n))
	}
	period := time.Duration(n) * unit
	if row.CreatedAt.IsZero() {
		return cron.Every(period), nil
	}
	return anchoredSchedule{anchor: row.CreatedAt, period: period}, nil
}

// anchoredSchedule fires at anchor + k*period for k >= 1.
type anchoredSchedule struct {
	anchor time.Time
	period time.Duration
}

func (s anchoredSchedule) Next(t time.Time) time.Time {
	if t.Before(s.anchor) {
		return s.anchor.Add(s.period).In(t.Location())
	}
	k := t.Sub(s.anchor)/s.period + 1
	return s.anchor.Add(k * s.period).In(t.Location())
}

type neverSchedule struct{}

func (neverSchedule) Next(time.Time) time.Time { return time.Time{} }

// onceSchedule fires a single time.
type onceSchedule struct {
	at time.Time
}

func (s onceSchedule) Next(t time.Time) time.Time {
	if s.at.After(t) {
		return s.at
	}
	return time.Time{}
}

func onceScheduleFor(row *models.ScheduleRow, loc *time.Location) (cron.Schedule, error) {
	at, err := time.ParseInLocation("2006-1-2 15:04", fmt.Sprintf("%s-%s-%s %s", row.Year, row.Month, row.Day, row.Time), loc)
	if err != nil {
		return nil, errors.Wrapf(err, "schedule %d has no valid start time", row.Id)
	}
	return onceSchedule{at: at}, nil
}

// weekOfMonthSchedule fires at hour:minute on the selected weekdays of the
// selected weeks. Week n (0..3) covers days 7n+1..7n+7; the Last week is
// the final seven days of the month and may overlap the Fourth.
type weekOfMonthSchedule struct {
	hour, minute int
	weeks        [WeekOfMonthWidth]bool
	weekdays     [7]bool
	months       [MonthWidth]bool
	loc          *time.Location
}

func (s *weekOfMonthSchedule) Next(t time.Time) time.Time {
	t = t.In(s.loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
	end := t.Add(searchHorizon)
	for ; day.Before(end); day = day.AddDate(0, 0, 1) {
		if !s.matches(day) {
			continue
		}
		at := time.Date(day.Year(), day.Month(), day.Day(), s.hour, s.minute, 0, 0, s.loc)
		if at.After(t) {
			return at
		}
	}
	return time.Time{}
}

func (s *weekOfMonthSchedule) matches(day time.Time) bool {
	if !s.months[day.Month()-1] || !s.weekdays[day.Weekday()] {
		return false
	}
	nth := (day.Day() - 1) / 7
	if nth < 4 && s.weeks[nth] {
		return true
	}
	daysInMonth := time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, s.loc).Day()
	return s.weeks[4] && day.Day()+7 > daysInMonth
}
