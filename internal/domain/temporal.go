package domain

import (
	"regexp"
	"strconv"
	"time"
	_ "time/tzdata" // reference zone must resolve in scratch containers
)

// ReferenceZone is the fixed civil timezone used to interpret "local" dates
// and times. It is deliberately not the server's ambient timezone: deriving
// "now" parts in a fixed zone keeps reading dates stable wherever the
// process runs, and the zone database supplies per-instant offsets so
// daylight-saving transitions are handled correctly.
const ReferenceZone = "America/New_York"

var referenceTZ = func() *time.Location {
	loc, err := time.LoadLocation(ReferenceZone)
	if err != nil {
		panic("load reference timezone: " + err.Error())
	}
	return loc
}()

var (
	localDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	localTimeRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
	instantRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d{1,3})?Z$`)
)

// IsValidLocalDate reports whether v is a calendar-correct local date in
// YYYY-MM-DD form. The date is constructed and round-tripped so shapes like
// 2024-02-30 are rejected, not normalised.
func IsValidLocalDate(v string) bool {
	if !localDateRe.MatchString(v) {
		return false
	}
	year, _ := strconv.Atoi(v[0:4])
	month, _ := strconv.Atoi(v[5:7])
	day, _ := strconv.Atoi(v[8:10])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// AssertValidLocalDate validates v as a local date, failing with a
// ValidationError on the readingDate field.
func AssertValidLocalDate(v string) error {
	if !IsValidLocalDate(v) {
		return invalid("readingDate", "must be a local date formatted as YYYY-MM-DD")
	}
	return nil
}

// IsValidLocalTime reports whether v is a clock time in HH:mm form with
// hour in [0,23] and minute in [0,59].
func IsValidLocalTime(v string) bool {
	if !localTimeRe.MatchString(v) {
		return false
	}
	hour, _ := strconv.Atoi(v[0:2])
	minute, _ := strconv.Atoi(v[3:5])
	return hour <= 23 && minute <= 59
}

// AssertValidLocalTime validates v as a local clock time, failing with a
// ValidationError on the readingTime field.
func AssertValidLocalTime(v string) error {
	if !IsValidLocalTime(v) {
		return invalid("readingTime", "must be formatted as HH:mm")
	}
	return nil
}

// IsValidInstant reports whether v is an ISO-8601 UTC timestamp of the form
// YYYY-MM-DDTHH:mm:ss[.fff]Z.
func IsValidInstant(v string) bool {
	if !instantRe.MatchString(v) {
		return false
	}
	_, err := time.Parse(time.RFC3339, v)
	return err == nil
}

// AssertValidInstant validates v as an ISO-8601 UTC timestamp, failing with
// a ValidationError on the createdAtIso field.
func AssertValidInstant(v string) error {
	if !IsValidInstant(v) {
		return invalid("createdAtIso", "must be an ISO-8601 UTC timestamp (e.g. 2023-01-01T12:00:00.000Z)")
	}
	return nil
}

// ParseInstant parses a validated ISO-8601 UTC timestamp.
func ParseInstant(v string) (time.Time, error) {
	if err := AssertValidInstant(v); err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, v)
}

// FormatInstant formats t as an ISO-8601 UTC timestamp with milliseconds.
func FormatInstant(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// LocalParts decomposes an instant into reference-timezone date and clock
// time strings.
func LocalParts(t time.Time) (readingDate, readingTime string) {
	lt := t.In(referenceTZ)
	return lt.Format("2006-01-02"), lt.Format("15:04")
}

// LocalDateOf returns the reference-timezone calendar date of an instant.
func LocalDateOf(t time.Time) string {
	return t.In(referenceTZ).Format("2006-01-02")
}
