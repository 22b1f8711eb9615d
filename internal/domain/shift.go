package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/pkg/types"
)

// Shift is the working window of a stylist on one weekday
type Shift struct {
	ID          uuid.UUID
	StylistID   uuid.UUID
	DayOfWeek   int // 1 = Monday ... 7 = Sunday
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsValid checks day range and that the window is not empty
func (s *Shift) IsValid() bool {
	if s.DayOfWeek < MinDayOfWeek || s.DayOfWeek > MaxDayOfWeek {
		return false
	}
	if s.StartTime.Validate() != nil || s.EndTime.Validate() != nil {
		return false
	}
	return s.StartTime.IsBefore(s.EndTime)
}

// DayOfWeek converts a date to the ISO weekday used by shifts (Sunday = 7)
func DayOfWeek(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// IsSunday reports whether the salon is closed by default on this date
func IsSunday(date time.Time) bool {
	return date.Weekday() == time.Sunday
}

// DefaultShifts returns the week a stylist gets when nothing is configured:
// Monday to Saturday over the whole grid, Sunday off.
func DefaultShifts(stylistID uuid.UUID, grid SlotGrid) []*Shift {
	shifts := make([]*Shift, 0, MaxDayOfWeek)
	for day := MinDayOfWeek; day <= MaxDayOfWeek; day++ {
		shifts = append(shifts, &Shift{
			StylistID:   stylistID,
			DayOfWeek:   day,
			StartTime:   grid.Open,
			EndTime:     grid.Close,
			IsAvailable: day != 7,
		})
	}
	return shifts
}
