package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Run times travel as "h:mm" / "hh:mm" strings and are stored as whole minutes.
// Parsing rejects anything that does not match the pattern; there is no
// default-to-zero path.

var ErrInvalidRunTime = errors.New("run time must be in hh:mm format")

var runTimePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

func ParseRunTime(s string) (time.Duration, error) {
	if !runTimePattern.MatchString(s) {
		return 0, ErrInvalidRunTime
	}

	parts := strings.SplitN(s, ":", 2)
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrInvalidRunTime
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrInvalidRunTime
	}

	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// FormatRunTime renders a duration as zero-padded "HH:MM". Non-positive
// durations render as "00:00".
func FormatRunTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalMinutes := int64(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
}
