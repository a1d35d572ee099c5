package salary

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Kabita-developer/Attendence-System/internal/domain"
)

var (
	re12Hour = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?\s*(AM|PM)$`)
	re24Hour = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?$`)
)

// ParseTimeToMinutes converts a human time string to minutes since midnight.
// Accepted forms: "01:00 PM", "1:00 PM", "01:00:00 PM", "13:00", "1:00".
func ParseTimeToMinutes(raw string) (int, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))

	if m := re12Hour.FindStringSubmatch(cleaned); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		if hours < 1 || hours > 12 {
			return 0, domain.Validationf("invalid hour in 12-hour format: %d", hours)
		}
		if minutes > 59 {
			return 0, domain.Validationf("invalid minutes: %d", minutes)
		}
		if m[3] == "PM" && hours != 12 {
			hours += 12
		} else if m[3] == "AM" && hours == 12 {
			hours = 0
		}
		return hours*60 + minutes, nil
	}

	if m := re24Hour.FindStringSubmatch(cleaned); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		if hours > 23 {
			return 0, domain.Validationf("invalid hour in 24-hour format: %d", hours)
		}
		if minutes > 59 {
			return 0, domain.Validationf("invalid minutes: %d", minutes)
		}
		return hours*60 + minutes, nil
	}

	return 0, domain.Validationf("invalid time format: %q (expected \"01:00 PM\" or \"13:00\")", raw)
}

// FormatMinutes renders minutes since midnight as a 12-hour clock string, the
// inverse of ParseTimeToMinutes. 1440 renders as 12:00 AM of the next day.
func FormatMinutes(minutes int) string {
	minutes %= 1440
	if minutes < 0 {
		minutes += 1440
	}
	hours := minutes / 60
	mins := minutes % 60
	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	hours %= 12
	if hours == 0 {
		hours = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hours, mins, period)
}
