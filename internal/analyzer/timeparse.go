package analyzer

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// weekdays are checked in week order; a query naming several weekdays
// always resolves to the earliest name in this list.
var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

var (
	time12Pattern = regexp.MustCompile(`(\d{1,2})\s*(am|pm)`)
	time24Pattern = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// ParseDateReference resolves a natural-language date phrase against base.
// It recognizes "today", "tomorrow", "this week", "next week", and weekday
// names; "next" before a weekday forces the following calendar week even if
// that weekday has not yet passed. The returned time is midnight of the
// resolved date. ok is false when the text names no date.
func ParseDateReference(text string, base time.Time) (time.Time, bool) {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "today"):
		return startOfDay(base), true
	case strings.Contains(lower, "tomorrow"):
		return startOfDay(base.AddDate(0, 0, 1)), true
	case strings.Contains(lower, "next week"):
		return startOfDay(base.AddDate(0, 0, 7-isoWeekday(base))), true
	case strings.Contains(lower, "this week"):
		return startOfDay(base), true
	}

	for _, wd := range weekdays {
		if !strings.Contains(lower, wd.name) {
			continue
		}

		ahead := (int(wd.day) - int(base.Weekday()) + 7) % 7
		if strings.Contains(lower, "next") && ahead == 0 {
			ahead = 7
		}
		// Without "next", a weekday matching today resolves to today.
		return startOfDay(base.AddDate(0, 0, ahead)), true
	}

	return time.Time{}, false
}

// ParseTimeReference extracts a clock time from text. It recognizes 12-hour
// forms such as "2 PM" and 24-hour forms such as "14:30". ok is false when
// no time is present.
func ParseTimeReference(text string) (TimeOfDay, bool) {
	lower := strings.ToLower(text)

	if m := time12Pattern.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		switch {
		case m[2] == "pm" && hour != 12:
			hour += 12
		case m[2] == "am" && hour == 12:
			hour = 0
		}
		return TimeOfDay{Hour: hour}, true
	}

	if m := time24Pattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
			return TimeOfDay{Hour: hour, Minute: minute}, true
		}
	}

	return TimeOfDay{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
