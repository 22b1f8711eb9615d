package domain

import "github.com/m04kA/BarberBookingService/pkg/types"

// Slot grid defaults
const (
	DefaultOpenTime            types.TimeString = "09:00"
	DefaultCloseTime           types.TimeString = "19:00"
	DefaultSlotIntervalMinutes                  = 30
)

// Shift weekdays
const (
	MinDayOfWeek = 1
	MaxDayOfWeek = 7
)

// Business validation constants
const (
	MaxClientNameLength = 120
	MaxEmailLength      = 254
	MaxPhoneLength      = 32
	MaxNotesLength      = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultCountryCode is prepended to national phone numbers starting with 0
const DefaultCountryCode = "+33"

