// Package dateutils provides common date operations used throughout the
// application. Reconciliation compares calendar days only, so helpers here
// normalize away time-of-day before comparing.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutUS       = "01/02/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
)

// CommonFormats is the list of formats tried when parsing dates from
// imported statements. European day-first layouts come before the
// ambiguous US ones, matching the data this tool usually sees.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutEuropean,
	"02/01/2006",
	"02-01-2006",
	DateLayoutUS,
	DateLayoutFull,
	"2.1.2006",
	"2006/01/02",
	"02 Jan 2006",
	"Jan 2, 2006",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// ParseDate attempts to parse a date string using the common formats.
func ParseDate(dateStr string) (time.Time, error) {
	cleaned := CleanDateString(dateStr)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString trims a date string and collapses internal whitespace.
func CleanDateString(dateStr string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD).
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// Day truncates a timestamp to midnight UTC so that two timestamps on the
// same calendar day compare equal regardless of time-of-day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// DayDiff returns the absolute calendar-day distance between two
// timestamps, ignoring time-of-day.
func DayDiff(a, b time.Time) int {
	hours := Day(a).Sub(Day(b)).Hours()
	days := int(hours / 24)
	if days < 0 {
		return -days
	}
	return days
}
