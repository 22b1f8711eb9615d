package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/pkg/types"
)

// SlotGrid is the fixed daily grid of bookable start times
type SlotGrid struct {
	Open            types.TimeString
	Close           types.TimeString
	IntervalMinutes int
}

// DefaultSlotGrid is 09:00 to 19:00 every 30 minutes (20 slots)
func DefaultSlotGrid() SlotGrid {
	return SlotGrid{
		Open:            DefaultOpenTime,
		Close:           DefaultCloseTime,
		IntervalMinutes: DefaultSlotIntervalMinutes,
	}
}

// Slots generates start times from Open (inclusive) to Close (exclusive)
func (g SlotGrid) Slots() ([]types.TimeString, error) {
	start, err := g.Open.Minutes()
	if err != nil {
		return nil, err
	}
	end, err := g.Close.Minutes()
	if err != nil {
		return nil, err
	}

	step := g.IntervalMinutes
	if step <= 0 {
		step = DefaultSlotIntervalMinutes
	}

	slots := make([]types.TimeString, 0, (end-start)/step+1)
	for m := start; m < end; m += step {
		slot, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// Contains reports whether t is one of the grid start times
func (g SlotGrid) Contains(t types.TimeString) bool {
	slots, err := g.Slots()
	if err != nil {
		return false
	}
	for _, s := range slots {
		if s == t {
			return true
		}
	}
	return false
}

// WorkingWindow is the part of the day a stylist accepts bookings
type WorkingWindow struct {
	Open  bool
	Start types.TimeString
	End   types.TimeString
}

// Covers reports whether a slot starting at t falls inside the window.
// The slot is accepted when it starts before End, like the grid itself.
func (w WorkingWindow) Covers(t types.TimeString) bool {
	if !w.Open {
		return false
	}
	return !t.IsBefore(w.Start) && t.IsBefore(w.End)
}

// ResolveWorkingWindow picks the window for a date.
// No configured shifts means DefaultShifts for the grid.
// Configured shifts without a row for that weekday mean the stylist is off.
func ResolveWorkingWindow(date time.Time, shifts []*Shift, grid SlotGrid) WorkingWindow {
	if len(shifts) == 0 {
		shifts = DefaultShifts(uuid.Nil, grid)
	}

	day := DayOfWeek(date)
	for _, s := range shifts {
		if s.DayOfWeek != day {
			continue
		}
		if !s.IsAvailable {
			return WorkingWindow{}
		}
		return WorkingWindow{Open: true, Start: s.StartTime, End: s.EndTime}
	}
	return WorkingWindow{}
}
