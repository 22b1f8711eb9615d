package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/pkg/types"
)

// WizardStep is a state of the booking wizard
type WizardStep int

const (
	StepServices WizardStep = iota + 1
	StepStylist
	StepDateTime
	StepDetails
	StepSubmitting
	StepSubmitted
)

func (s WizardStep) String() string {
	switch s {
	case StepServices:
		return "services"
	case StepStylist:
		return "stylist"
	case StepDateTime:
		return "datetime"
	case StepDetails:
		return "details"
	case StepSubmitting:
		return "submitting"
	case StepSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Editable reports whether selections may still change
func (s WizardStep) Editable() bool {
	return s >= StepServices && s <= StepDetails
}

// ClientDetails is what the client types on the last step
type ClientDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes,omitempty"`
}

// Complete reports whether the mandatory contact fields are filled
func (d ClientDetails) Complete() bool {
	return d.Name != "" && d.Email != "" && d.Phone != ""
}

// WizardSession holds the selections of one booking session.
// Booked maps a service to the appointment already created for it by an earlier,
// partially failed submit, so a retry only books what is missing.
type WizardSession struct {
	ID         uuid.UUID               `json:"id"`
	Step       WizardStep              `json:"step"`
	ServiceIDs []uuid.UUID             `json:"serviceIds"`
	StylistID  *uuid.UUID              `json:"stylistId,omitempty"`
	Date       *time.Time              `json:"date,omitempty"`
	Time       types.TimeString        `json:"time,omitempty"`
	Details    ClientDetails           `json:"details"`
	Booked     map[uuid.UUID]uuid.UUID `json:"booked,omitempty"`
	LastError  string                  `json:"lastError,omitempty"`
	CreatedAt  time.Time               `json:"createdAt"`
	UpdatedAt  time.Time               `json:"updatedAt"`
}

// ClearSelection drops everything the client picked, used after a successful submit
func (w *WizardSession) ClearSelection() {
	w.ServiceIDs = nil
	w.StylistID = nil
	w.Date = nil
	w.Time = ""
	w.Details = ClientDetails{}
	w.Booked = nil
	w.LastError = ""
}
