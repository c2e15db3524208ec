// Package duration parses the check subcommand's "<N[s|m|h|d]>" syntax,
// where a bare number means minutes.
package duration

import (
	"strconv"
	"time"

	"mixrand/internal/merr"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
)

// Parse parses a duration string of the form "<N>[s|m|h|d]" into a
// time.Duration. A bare number (no suffix) is interpreted as minutes.
// An empty string, a zero duration, or a non-numeric body is an
// invalid-argument error.
func Parse(s string) (time.Duration, error) {
	if s == "" {
		return 0, merr.InvalidArgs("empty duration")
	}

	multiplier := int64(secondsPerMinute)
	body := s
	switch s[len(s)-1] {
	case 's':
		multiplier = 1
		body = s[:len(s)-1]
	case 'm':
		multiplier = secondsPerMinute
		body = s[:len(s)-1]
	case 'h':
		multiplier = secondsPerHour
		body = s[:len(s)-1]
	case 'd':
		multiplier = secondsPerDay
		body = s[:len(s)-1]
	}

	if body == "" {
		return 0, merr.InvalidArgs("duration %q has no numeric value", s)
	}

	n, err := strconv.ParseInt(body, 10, 64)
	if err != nil {
		return 0, merr.InvalidArgs("duration %q is not numeric: %s", s, err)
	}

	seconds := n * multiplier
	if seconds <= 0 {
		return 0, merr.InvalidArgs("duration %q must be positive", s)
	}

	return time.Duration(seconds) * time.Second, nil
}
