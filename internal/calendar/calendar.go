// Package calendar holds the date arithmetic and Icelandic month naming used
// by the dashboard. All dates are calendar days at UTC midnight.
package calendar

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var monthNames = map[time.Month]string{
	time.January:   "janúar",
	time.February:  "febrúar",
	time.March:     "mars",
	time.April:     "apríl",
	time.May:       "maí",
	time.June:      "júní",
	time.July:      "júlí",
	time.August:    "ágúst",
	time.September: "september",
	time.October:   "október",
	time.November:  "nóvember",
	time.December:  "desember",
}

var monthShort = map[time.Month]string{
	time.January:   "jan",
	time.February:  "feb",
	time.March:     "mar",
	time.April:     "apr",
	time.May:       "maí",
	time.June:      "jún",
	time.July:      "júl",
	time.August:    "ágú",
	time.September: "sep",
	time.October:   "okt",
	time.November:  "nóv",
	time.December:  "des",
}

var titleCaser = cases.Title(language.Icelandic)

// MonthName returns the Icelandic month name, or "" for an unknown month.
func MonthName(m time.Month) string {
	return monthNames[m]
}

// MonthShort returns the abbreviated Icelandic month name.
func MonthShort(m time.Month) string {
	return monthShort[m]
}

// FormatMonth renders a date as "<month name> <year>", e.g. "mars 2025".
func FormatMonth(t time.Time) string {
	return fmt.Sprintf("%s %d", MonthName(t.Month()), t.Year())
}

// FormatMonthTitle is FormatMonth with the month name title-cased.
func FormatMonthTitle(t time.Time) string {
	return titleCaser.String(FormatMonth(t))
}

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

func StartOfMonth(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), 1)
}

// EndOfMonth returns the last calendar day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// DaysInMonth returns the number of days in t's calendar month.
func DaysInMonth(t time.Time) int {
	return EndOfMonth(t).Day()
}

// PreviousMonth returns the first day of the month before t's month.
func PreviousMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, -1, 0)
}

// NextMonth returns the first day of the month after t's month.
func NextMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0)
}

// LastFullMonth returns the first day of the calendar month preceding now.
func LastFullMonth(now time.Time) time.Time {
	return PreviousMonth(now)
}

// MonthRange returns the first and last day of t's month.
func MonthRange(t time.Time) (time.Time, time.Time) {
	return StartOfMonth(t), EndOfMonth(t)
}

// Days returns the inclusive sequence of calendar days in [start, end].
// The result is empty when start is after end.
func Days(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	if start.After(end) {
		return nil
	}
	n := int(end.Sub(start).Hours()/24) + 1
	days := make([]time.Time, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// WeekKey identifies an ISO 8601 week.
type WeekKey struct {
	Year int
	Week int
}

func ISOWeekKey(t time.Time) WeekKey {
	y, w := t.ISOWeek()
	return WeekKey{Year: y, Week: w}
}

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Start returns the first day of the month.
func (k MonthKey) Start() time.Time {
	return Date(k.Year, k.Month, 1)
}

// Before reports whether k is an earlier month than other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}
