package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// IsValid reports whether the status is one of the known values
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// allowedTransitions lists every permitted status change.
// Cancelled is terminal: a cancelled slot may already be re-booked.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPending, StatusCancelled},
}

// CanTransition reports whether an appointment may move from one status to another.
// Setting the current status again is a no-op and always allowed.
func CanTransition(from, to AppointmentStatus) bool {
	if from == to {
		return from.IsValid()
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Appointment represents a single (client, service, stylist, date, time) reservation
type Appointment struct {
	ID uuid.UUID

	// GroupID links the rows created by one multi-service submission.
	// Rows of the same group may share a stylist slot.
	GroupID uuid.UUID

	ServiceID uuid.UUID
	StylistID uuid.UUID

	ClientName  string
	ClientEmail string
	ClientPhone string

	BookingDate time.Time
	BookingTime types.TimeString
	Notes       *string

	Status                AppointmentStatus
	WhatsAppNotifications bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Confirmed is derived from the status so the two can never disagree
func (a *Appointment) Confirmed() bool {
	return a.Status == StatusConfirmed
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// AppointmentDetails is an appointment joined with its catalog entries.
// Title and name are empty when the referenced row no longer exists.
type AppointmentDetails struct {
	Appointment

	ServiceTitle    string
	ServicePrice    float64
	ServiceDuration int
	StylistName     string
}

// BookedSlot is the part of an appointment the slot engine cares about
type BookedSlot struct {
	Time      types.TimeString
	GroupID   uuid.UUID
	ServiceID uuid.UUID
}

// AppointmentFilter selects a subset of appointments for the admin list
type AppointmentFilter string

const (
	FilterAll       AppointmentFilter = "all"
	FilterToday     AppointmentFilter = "today"
	FilterUpcoming  AppointmentFilter = "upcoming"
	FilterConfirmed AppointmentFilter = "confirmed"
	FilterPending   AppointmentFilter = "pending"
)

func (f AppointmentFilter) IsValid() bool {
	switch f {
	case FilterAll, FilterToday, FilterUpcoming, FilterConfirmed, FilterPending:
		return true
	default:
		return false
	}
}

// AppointmentsQuery is a resolved filter: Today is the salon-local calendar day
type AppointmentsQuery struct {
	Filter AppointmentFilter
	Today  time.Time
}

// DashboardStats aggregates counters for the admin dashboard
type DashboardStats struct {
	BookingsToday int
	BookingsWeek  int
	TotalClients  int
	TotalStylists int
}
