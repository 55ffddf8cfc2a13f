package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrMalformedResponse = errors.New("malformed upstream response")
	ErrSnapshotNotFound  = errors.New("catalog snapshot not found")
	ErrNoUpcomingEvents  = errors.New("no upcoming events")
)

// UpstreamHTTPError reports a non-2xx status from either upstream API. The
// whole fetch is aborted; no partial result accompanies it.
type UpstreamHTTPError struct {
	Status int
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

// TimeParseError reports a malformed date or time-of-day string during
// catalog building. A single bad record invalidates the entire fetch.
type TimeParseError struct {
	Input  string
	Reason string
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("cannot parse time %q: %s", e.Input, e.Reason)
}

// IsUpstreamHTTPError reports whether err is an UpstreamHTTPError and, if
// so, returns its status code.
func IsUpstreamHTTPError(err error) (int, bool) {
	var httpErr *UpstreamHTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status, true
	}
	return 0, false
}

// IsTimeParseError reports whether err is a TimeParseError.
func IsTimeParseError(err error) bool {
	var parseErr *TimeParseError
	return errors.As(err, &parseErr)
}
