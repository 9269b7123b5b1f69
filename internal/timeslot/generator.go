package timeslot

import (
	"fmt"
	"time"
)

// GenerateSlots cuts the [open, close) window of a field-day into
// fixed-duration slots. A trailing remainder shorter than the duration is
// discarded; an empty window yields no slots.
func GenerateSlots(fieldID int, date, openTime, closeTime string, durationMinutes int, status Status) ([]Slot, error) {
	open, err := ParseClock(openTime)
	if err != nil {
		return nil, err
	}
	close, err := ParseClock(closeTime)
	if err != nil {
		return nil, err
	}

	if durationMinutes <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", durationMinutes)
	}
	if close.Before(open) {
		return nil, fmt.Errorf("close time %s is before open time %s", closeTime, openTime)
	}

	if status == "" {
		status = StatusAvailable
	}

	var slots []Slot
	duration := time.Duration(durationMinutes) * time.Minute

	for current := open; !current.Add(duration).After(close); current = current.Add(duration) {
		slots = append(slots, Slot{
			FieldID:   fieldID,
			Date:      date,
			StartTime: current.Format(TimeFormat),
			EndTime:   current.Add(duration).Format(TimeFormat),
			Status:    status,
		})
	}

	return slots, nil
}

// ParseClock parses an HH:MM wall-clock string.
func ParseClock(value string) (time.Time, error) {
	t, err := time.Parse(TimeFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM: %w", value, err)
	}
	return t, nil
}

// SlotsNeeded returns how many consecutive slots of slotDuration minutes
// cover requestedMinutes, rounding up.
func SlotsNeeded(requestedMinutes, slotDurationMinutes int) int {
	return (requestedMinutes + slotDurationMinutes - 1) / slotDurationMinutes
}
