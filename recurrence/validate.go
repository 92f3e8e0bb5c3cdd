package recurrence

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"zdm_server_go/errors"
	"zdm_server_go/models"
)

var (
	yearPattern  = regexp.MustCompile(`^\d{4}$`)
	numPattern   = regexp.MustCompile(`^\d{1,2}$`)
	clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// rule is one check in an ordered rule list. Validation stops at the
// first rule that returns an error.
type rule func(s *models.RecurrenceSpec) error

func patternRule(name, field string, re *regexp.Regexp, get func(*models.RecurrenceSpec) string) rule {
	return func(s *models.RecurrenceSpec) error {
		if v := get(s); !re.MatchString(v) {
			return errors.NewValidationError(name, field, v)
		}
		return nil
	}
}

func numericRangeRule(field string, lo, hi int, get func(*models.RecurrenceSpec) string) rule {
	name := fmt.Sprintf("%s must be numeric in [%d,%d]", field, lo, hi)
	return func(s *models.RecurrenceSpec) error {
		v := get(s)
		if !numPattern.MatchString(v) {
			return errors.NewValidationError(name, field, v)
		}
		n, _ := strconv.Atoi(v)
		if n < lo || n > hi {
			return errors.NewValidationError(name, field, v)
		}
		return nil
	}
}

func intervalRule(field string, lo, hi int, get func(*models.RecurrenceSpec) int) rule {
	name := fmt.Sprintf("%s must be in [%d,%d]", field, lo, hi)
	return func(s *models.RecurrenceSpec) error {
		if v := get(s); v < lo || v > hi {
			return errors.NewValidationError(name, field, strconv.Itoa(v))
		}
		return nil
	}
}

func maskRule(field string, width int, get func(*models.RecurrenceSpec) string) rule {
	return func(s *models.RecurrenceSpec) error {
		v := get(s)
		set, err := ParseMask(field, v, width)
		if err != nil {
			return err
		}
		if len(set) == 0 {
			return errors.NewValidationError("at least one position must be selected", field, v)
		}
		return nil
	}
}

// calendarDateRule runs after the field-shape rules, so the parts are known
// to be numeric; it rejects dates such as Feb 30.
func calendarDateRule(s *models.RecurrenceSpec) error {
	date := fmt.Sprintf("%s-%s-%s", s.Year, s.Month, s.Day)
	if _, err := time.Parse("2006-1-2", date); err != nil {
		return errors.NewValidationError("date must exist in the calendar", "date", date)
	}
	return nil
}

var (
	yearRule    = patternRule("year must be 4 digits", "year", yearPattern, func(s *models.RecurrenceSpec) string { return s.Year })
	monthRule   = numericRangeRule("month", 1, 12, func(s *models.RecurrenceSpec) string { return s.Month })
	dayRule     = numericRangeRule("day", 1, 31, func(s *models.RecurrenceSpec) string { return s.Day })
	timeRule    = patternRule("time must be HH:mm (00:00-23:59)", "time", clockPattern, func(s *models.RecurrenceSpec) string { return s.Time })
	minuteRule  = intervalRule("intervalMinutes", 1, 59, func(s *models.RecurrenceSpec) int { return s.IntervalMinutes })
	hourRule    = intervalRule("intervalHours", 1, 23, func(s *models.RecurrenceSpec) int { return s.IntervalHours })
	weekdayRule = maskRule("weekdayMask", WeekdayWidth, func(s *models.RecurrenceSpec) string { return s.WeekdayMask })
	weekRule    = maskRule("weekOfMonthMask", WeekOfMonthWidth, func(s *models.RecurrenceSpec) string { return s.WeekOfMonthMask })
	dateRule    = maskRule("dateMask", DateWidth, func(s *models.RecurrenceSpec) string { return s.DateMask })
	monthsRule  = maskRule("monthMask", MonthWidth, func(s *models.RecurrenceSpec) string { return s.MonthMask })
)

var baseRules = map[models.RecurrenceType][]rule{
	models.RecurrenceOnce:                  {yearRule, monthRule, dayRule, timeRule, calendarDateRule},
	models.RecurrenceEveryMinute:           {minuteRule},
	models.RecurrenceHourly:                {hourRule},
	models.RecurrenceDaily:                 {timeRule},
	models.RecurrenceWeekly:                {timeRule, weekdayRule},
	models.RecurrenceMonthlyOnSpecificWeek: {timeRule, weekRule, weekdayRule},
	models.RecurrenceMonthlyOnSpecificDay:  {timeRule, dateRule},
}

func rulesFor(t models.RecurrenceType) []rule {
	rules := baseRules[t.Base()]
	if t.IsCustom() {
		rules = append(append([]rule{}, rules...), monthsRule)
	}
	return rules
}

// Validate checks spec against the rules of spec.Type and returns the
// encoded row. The first failing rule is reported as a ValidationError.
func Validate(spec *models.RecurrenceSpec) (*models.ScheduleRow, error) {
	if spec == nil {
		return nil, errors.NewValidationError("recurrence is required", "recurrence", "")
	}
	if !spec.Type.Valid() {
		return nil, errors.NewValidationError("type must be a known recurrence type", "type", strconv.Itoa(spec.Type.Code()))
	}
	for _, r := range rulesFor(spec.Type) {
		if err := r(spec); err != nil {
			return nil, errors.Wrapf(err, "validate %s", spec.Type)
		}
	}
	return Encode(spec), nil
}

// ValidatePair validates a registration: basic types take exactly one of
// full/increment, smart types take both. Each side is validated as type t.
func ValidatePair(t models.RecurrenceType, full, increment *models.RecurrenceSpec) (*models.RecurrencePair, error) {
	if !t.Valid() {
		return nil, errors.NewValidationError("type must be a known recurrence type", "type", strconv.Itoa(t.Code()))
	}

	if t.IsSmart() {
		if full == nil {
			return nil, errors.NewValidationError("smart schedules require a full recurrence", "full", "")
		}
		if increment == nil {
			return nil, errors.NewValidationError("smart schedules require an increment recurrence", "increment", "")
		}
	} else {
		if full == nil && increment == nil {
			return nil, errors.NewValidationError("one of full or increment is required", "full", "")
		}
		if full != nil && increment != nil {
			return nil, errors.NewValidationError("basic schedules take exactly one of full or increment", "increment", "")
		}
	}

	pair := &models.RecurrencePair{}
	if full != nil {
		row, err := validateAs(t, full)
		if err != nil {
			return nil, errors.Wrap(err, "full")
		}
		pair.Full = row
	}
	if increment != nil {
		row, err := validateAs(t, increment)
		if err != nil {
			return nil, errors.Wrap(err, "increment")
		}
		pair.Increment = row
	}
	return pair, nil
}

func validateAs(t models.RecurrenceType, spec *models.RecurrenceSpec) (*models.ScheduleRow, error) {
	s := *spec
	s.Type = t
	return Validate(&s)
}
