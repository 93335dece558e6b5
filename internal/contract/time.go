package contract

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// windowDurationRe captures "N [units]", e.g. "30 days" or "1 week".
var windowDurationRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute|second)s?$`)

// ParseWindowDuration converts strings like "1 week" or "720h" into a time.Duration.
// Go's built-in duration syntax is tried first, then the human-readable form.
// Durations below one second are rejected since commit times have second precision.
func ParseWindowDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if duration, err := time.ParseDuration(s); err == nil {
		return checkWindowDuration(duration)
	}

	matches := windowDurationRe.FindStringSubmatch(strings.ToLower(s))
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid window duration format: %q", s)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid window duration value: %q", s)
	}

	var unit time.Duration
	switch matches[2] {
	case "year":
		unit = 365 * 24 * time.Hour
	case "month":
		unit = 30 * 24 * time.Hour
	case "week":
		unit = 7 * 24 * time.Hour
	case "day":
		unit = 24 * time.Hour
	case "hour":
		unit = time.Hour
	case "minute":
		unit = time.Minute
	case "second":
		unit = time.Second
	default:
		return 0, errors.New("unsupported time unit")
	}
	if int64(value) > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("window duration is too large: %q", s)
	}
	return checkWindowDuration(time.Duration(value) * unit)
}

func checkWindowDuration(d time.Duration) (time.Duration, error) {
	if d < time.Second {
		return 0, fmt.Errorf("window duration must be at least 1s (received %s)", d)
	}
	return d, nil
}
