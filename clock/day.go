package clock

import (
	"fmt"
	"time"
)

const (
	// ReferenceOffset is the fixed UTC offset (UTC-5) study days are anchored to.
	ReferenceOffset = -5 * 60 * 60

	DayLayout = "2006-01-02"

	secondsPerDay = 24 * 60 * 60
)

var referenceZone = time.FixedZone("UTC-5", ReferenceOffset)

// DayIdentifier returns the study day label for t. The last minute of a
// reference day (23:59) already belongs to the next day's label.
func DayIdentifier(t time.Time) string {
	local := t.In(referenceZone)
	if local.Hour() == 23 && local.Minute() == 59 {
		local = local.AddDate(0, 0, 1)
	}
	return local.Format(DayLayout)
}

// ShouldAdvanceDay reports whether now falls on a different study day than
// lastDay. An empty lastDay always advances.
func ShouldAdvanceDay(lastDay string, now time.Time) bool {
	return lastDay == "" || DayIdentifier(now) != lastDay
}

// DayIndex converts a day label into a count of whole days since the epoch.
func DayIndex(label string) (int, error) {
	d, err := time.ParseInLocation(DayLayout, label, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid day label %q: %w", label, err)
	}
	return int(d.Unix() / secondsPerDay), nil
}

// DaysBetween returns DayIndex(to) - DayIndex(from).
func DaysBetween(from, to string) (int, error) {
	f, err := DayIndex(from)
	if err != nil {
		return 0, err
	}
	t, err := DayIndex(to)
	if err != nil {
		return 0, err
	}
	return t - f, nil
}
