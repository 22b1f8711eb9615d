package get_available_slots

import (
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// computeSlots сетка, пересеченная с рабочим окном, минус занятые слоты и прошедшее время.
// Порядок сетки сохраняется
func computeSlots(
	grid []types.TimeString,
	window domain.WorkingWindow,
	booked []domain.BookedSlot,
	date time.Time,
	now time.Time,
) []types.TimeString {
	slots := make([]types.TimeString, 0, len(grid))

	day := dateOnly(date)
	today := dateOnly(now)
	if day.Before(today) || !window.Open {
		return slots
	}

	taken := make(map[types.TimeString]struct{}, len(booked))
	for _, b := range booked {
		taken[b.Time] = struct{}{}
	}

	// сегодня слоты, которые уже начались, недоступны
	var cutoff types.TimeString
	if day.Equal(today) {
		cutoff = types.NewTimeString(now)
	}

	for _, slot := range grid {
		if !window.Covers(slot) {
			continue
		}
		if _, ok := taken[slot]; ok {
			continue
		}
		if !cutoff.IsZero() && !slot.IsAfter(cutoff) {
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}

// dateOnly календарный день без учета часового пояса значения
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
