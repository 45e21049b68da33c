package model

import (
	"strconv"
	"strings"
	"time"
)

// ShowStart combines a show's calendar date with its stored time-of-day
// string and returns the absolute start instant in UTC.  The time string
// is expected in 12-hour form ("02:30 PM"); a bare 24-hour "14:30" is
// also accepted.  When the string is empty or cannot be parsed the show
// is assumed to start at midnight of ShowDate, which keeps the
// cancellation cutoff conservative rather than failing the request.
func ShowStart(showDate time.Time, showTime string) time.Time {
	h, m := parseClock(showTime)
	d := showDate.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, time.UTC)
}

// parseClock interprets "HH:MM", "H:MM AM" or "HH:MM PM" (modifier case
// insensitive).  Midnight is returned for anything else.
func parseClock(s string) (hour, minute int) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return 0, 0
	}
	hm := strings.SplitN(fields[0], ":", 2)
	if len(hm) != 2 {
		return 0, 0
	}
	h, errH := strconv.Atoi(hm[0])
	m, errM := strconv.Atoi(hm[1])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0
	}
	if len(fields) > 1 {
		switch strings.ToUpper(fields[1]) {
		case "AM":
			if h == 12 {
				h = 0
			}
		case "PM":
			if h < 12 {
				h += 12
			}
		default:
			return 0, 0
		}
	}
	return h, m
}
