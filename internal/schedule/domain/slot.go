// Package domain holds the staffing schedule model: slots, pricing,
// assignment resolution, calendar projection and reminder rules.
package domain

import (
	"strings"
	"time"

	apperrors "github.com/tbhone/folies-planning/internal/platform/errors"
)

// Slot is the sub-division of a night's booking.
type Slot string

const (
	// SlotWarmup covers the opening part of the night.
	SlotWarmup Slot = "warmup"
	// SlotPeaktime covers the main part of the night.
	SlotPeaktime Slot = "peaktime"
	// SlotComplete covers the whole night and excludes both half-slots.
	SlotComplete Slot = "complete"
)

// ParseSlot validates and normalizes a slot token.
func ParseSlot(value string) (Slot, error) {
	slot := Slot(strings.ToLower(strings.TrimSpace(value)))
	if !slot.Valid() {
		return "", apperrors.WithMetadata(apperrors.CodeInvalidSlot, "unrecognized slot", map[string]string{"slot": value})
	}
	return slot, nil
}

// Valid reports whether the slot is one of the three recognized values.
func (s Slot) Valid() bool {
	switch s {
	case SlotWarmup, SlotPeaktime, SlotComplete:
		return true
	}
	return false
}

const dateLayout = "2006-01-02"

// ParseDate parses a civil date key in YYYY-MM-DD form.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.CodeInvalidDate, "malformed date", err)
	}
	return date, nil
}

// FormatDate renders a civil date key in YYYY-MM-DD form.
func FormatDate(date time.Time) string {
	return date.Format(dateLayout)
}

// DateOnly truncates a timestamp to its civil date at midnight UTC.
func DateOnly(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// IsPast reports whether date falls strictly before today. Both values are
// compared as civil dates.
func IsPast(date time.Time, today time.Time) bool {
	return DateOnly(date).Before(DateOnly(today))
}

// DaysUntil returns the whole number of days from today to date.
func DaysUntil(date time.Time, today time.Time) int {
	return int(DateOnly(date).Sub(DateOnly(today)) / (24 * time.Hour))
}

// IsShowNight reports whether the venue runs a show on that weekday.
// Shows run Thursday through Saturday.
func IsShowNight(date time.Time) bool {
	switch date.Weekday() {
	case time.Thursday, time.Friday, time.Saturday:
		return true
	}
	return false
}
