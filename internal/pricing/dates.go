package pricing

import "time"

// DateLayout is the wire format for calendar dates (check-in, check-out).
const DateLayout = "2006-01-02"

// StartOfDay returns midnight UTC of t's calendar date (in t's own location).
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from `from` to `to`. Negative when to is earlier.
func DaysBetween(from, to time.Time) int {
	return int(StartOfDay(to).Sub(StartOfDay(from)) / (24 * time.Hour))
}

func Nights(checkIn, checkOut time.Time) int {
	return DaysBetween(checkIn, checkOut)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(t), nil
}
