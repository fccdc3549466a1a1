package schedule

import (
	"fmt"
	"regexp"
	"strconv"
)

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

const endOfDayClock = "24:00"

// ParseClock converts "HH:MM" (00:00..23:59) into minutes since midnight.
func ParseClock(s string) (int, error) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedClock, s)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if hours > 23 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrClockOutOfRange, s)
	}
	return hours*60 + minutes, nil
}

// ParseEndClock is ParseClock for interval ends, which may also be "24:00"
// (minute 1440), so every FormatClock output parses back.
func ParseEndClock(s string) (int, error) {
	if s == endOfDayClock {
		return MinutesPerDay, nil
	}
	return ParseClock(s)
}

// FormatClock renders minutes since midnight as "HH:MM". 1440 renders as "24:00".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
