package integrations

import (
	"strconv"
	"strings"
	"time"

	"github.com/haru/meets-dashboard/pkg/domain"
)

// All upstream dates and times of day are wall-clock JST (UTC+9) with no
// zone marker of their own.
var jst = time.FixedZone("JST", 9*60*60)

// parseDateJST parses an upstream YYYY-MM-DD date as midnight JST.
func parseDateJST(date string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, jst)
	if err != nil {
		return time.Time{}, &domain.TimeParseError{Input: date, Reason: "expected YYYY-MM-DD date"}
	}
	return day, nil
}

// combineDateAndTime combines an upstream date with an HH:MM:SS time of day
// into the absolute instant they denote in JST. The time string must have
// exactly three numeric components within natural ranges; violations fail
// hard rather than being clamped.
func combineDateAndTime(date, timeOfDay string) (time.Time, error) {
	day, err := parseDateJST(date)
	if err != nil {
		return time.Time{}, err
	}

	parts := strings.Split(timeOfDay, ":")
	if len(parts) != 3 {
		return time.Time{}, &domain.TimeParseError{Input: timeOfDay, Reason: "expected HH:MM:SS time of day"}
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, &domain.TimeParseError{Input: timeOfDay, Reason: "hour out of range"}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, &domain.TimeParseError{Input: timeOfDay, Reason: "minute out of range"}
	}
	second, err := strconv.Atoi(parts[2])
	if err != nil || second < 0 || second > 59 {
		return time.Time{}, &domain.TimeParseError{Input: timeOfDay, Reason: "second out of range"}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, second, 0, jst), nil
}

// startOfDayJST truncates an instant to midnight of its JST calendar day,
// the granularity at which past occurrences are discarded.
func startOfDayJST(t time.Time) time.Time {
	t = t.In(jst)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, jst)
}
