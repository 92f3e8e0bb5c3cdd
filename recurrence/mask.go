// Package recurrence converts between recurrence specs, stored schedule
// rows and their human-readable descriptions.
package recurrence

import (
	"strconv"
	"strings"

	"zdm_server_go/errors"
)

// Mask widths.
const (
	WeekdayWidth     = 7
	WeekOfMonthWidth = 5
	DateWidth        = 31
	MonthWidth       = 12
)

const maskSep = "|"

// Position labels, in mask order.
var (
	WeekdayLabels     = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	WeekOfMonthLabels = []string{"First", "Second", "Third", "Fourth", "Last"}
	MonthLabels       = []string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
)

// EncodeMask builds a width-position mask with the given 0-based positions set.
// Out-of-range positions are ignored.
func EncodeMask(width int, positions ...int) string {
	flags := make([]string, width)
	for i := range flags {
		flags[i] = "0"
	}
	for _, p := range positions {
		if p >= 0 && p < width {
			flags[p] = "1"
		}
	}
	return strings.Join(flags, maskSep)
}

// ParseMask strictly decodes a mask of the given width and returns the set
// positions in ascending order.
func ParseMask(field, mask string, width int) ([]int, error) {
	parts := strings.Split(mask, maskSep)
	if len(parts) != width {
		return nil, errors.NewValidationError(
			"mask must have "+strconv.Itoa(width)+" pipe-delimited flags", field, mask)
	}
	var set []int
	for i, p := range parts {
		switch p {
		case "1":
			set = append(set, i)
		case "0":
		default:
			return nil, errors.NewValidationError("mask flags must be 0 or 1", field, mask)
		}
	}
	return set, nil
}

// SetPositions leniently decodes a stored mask: any flag other than "1"
// counts as unset. Used for display, where a stored row must always render.
func SetPositions(mask string) []int {
	if mask == "" {
		return nil
	}
	var set []int
	for i, p := range strings.Split(mask, maskSep) {
		if strings.TrimSpace(p) == "1" {
			set = append(set, i)
		}
	}
	return set
}

// Labels maps positions onto labels, skipping positions past the label set.
func Labels(positions []int, labels []string) []string {
	out := make([]string, 0, len(positions))
	for _, p := range positions {
		if p < len(labels) {
			out = append(out, labels[p])
		}
	}
	return out
}

// DateLabels renders date-mask positions as 1-based day numbers.
func DateLabels(positions []int) []string {
	out := make([]string, 0, len(positions))
	for _, p := range positions {
		if p < DateWidth {
			out = append(out, strconv.Itoa(p+1))
		}
	}
	return out
}
