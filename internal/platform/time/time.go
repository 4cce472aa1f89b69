// Package time holds clock and calendar helpers shared by services
package time

import (
	"strings"
	"time"

	perr "trendlens/internal/platform/errors"
)

// Now is the process clock, swapped in tests
var Now = func() time.Time { return time.Now().UTC() }

// ParseDay parses a YYYY-MM-DD value as a UTC day. Blank input is the zero time
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return time.Time{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "date %q", s)
	}
	return t, nil
}

// DayRange parses an inclusive from/to pair and rejects inverted ranges
// errors carry the offending field, "from" or "to"
func DayRange(from, to string) (time.Time, time.Time, error) {
	f, err := ParseDay(from)
	if err != nil {
		return f, f, perr.WithField(err, "from")
	}
	t, err := ParseDay(to)
	if err != nil {
		return f, t, perr.WithField(err, "to")
	}
	if !f.IsZero() && !t.IsZero() && t.Before(f) {
		return f, t, perr.WithField(perr.InvalidArgf("date range %s..%s is inverted", from, to), "to")
	}
	return f, t, nil
}
