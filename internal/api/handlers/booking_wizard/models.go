package booking_wizard

import (
	"errors"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	createBooking "github.com/m04kA/BarberBookingService/internal/usecase/create_booking"
	"github.com/m04kA/BarberBookingService/internal/wizard"
)

// Request модели

type SelectServicesRequest struct {
	ServiceIDs []string `json:"serviceIds"`
}

type SelectStylistRequest struct {
	StylistID string `json:"stylistId"`
}

type SelectDateRequest struct {
	Date string `json:"date"` // "2025-03-10"
}

type SelectTimeRequest struct {
	Time string `json:"time"` // "14:00"
}

type DetailsRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes,omitempty"`
}

// Response модели

// SessionResponse состояние мастера записи
type SessionResponse struct {
	ID             string               `json:"id"`
	Step           int                  `json:"step"`
	StepName       string               `json:"stepName"`
	ServiceIDs     []string             `json:"serviceIds"`
	StylistID      *string              `json:"stylistId,omitempty"`
	Date           *string              `json:"date,omitempty"`
	Time           string               `json:"time,omitempty"`
	Details        domain.ClientDetails `json:"details"`
	BookedServices map[string]string    `json:"bookedServices,omitempty"`
	LastError      string               `json:"lastError,omitempty"`
	Summary        *wizard.Summary      `json:"summary,omitempty"`
	AvailableSlots []string             `json:"availableSlots"`
	CanAdvance     bool                 `json:"canAdvance"`
}

// OutcomeResponse результат записи на одну услугу
type OutcomeResponse struct {
	ServiceID     string  `json:"serviceId"`
	ServiceTitle  string  `json:"serviceTitle"`
	Booked        bool    `json:"booked"`
	AppointmentID *string `json:"appointmentId,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// SubmitResponse успешная отправка
type SubmitResponse struct {
	Session  *SessionResponse  `json:"session"`
	Outcomes []OutcomeResponse `json:"outcomes"`
}

// SubmitFailureResponse ответ 409 при сбое отправки; Partial = часть услуг уже записана
type SubmitFailureResponse struct {
	Code     int               `json:"code"`
	Message  string            `json:"message"`
	Partial  bool              `json:"partial"`
	Outcomes []OutcomeResponse `json:"outcomes"`
	Session  *SessionResponse  `json:"session,omitempty"`
}

// Конвертеры

func fromSession(s *domain.WizardSession) *SessionResponse {
	resp := &SessionResponse{
		ID:             s.ID.String(),
		Step:           int(s.Step),
		StepName:       s.Step.String(),
		ServiceIDs:     make([]string, 0, len(s.ServiceIDs)),
		Time:           s.Time.String(),
		Details:        s.Details,
		LastError:      s.LastError,
		AvailableSlots: []string{},
	}
	for _, id := range s.ServiceIDs {
		resp.ServiceIDs = append(resp.ServiceIDs, id.String())
	}
	if s.StylistID != nil {
		id := s.StylistID.String()
		resp.StylistID = &id
	}
	if s.Date != nil {
		d := s.Date.Format(domain.DateFormat)
		resp.Date = &d
	}
	if len(s.Booked) > 0 {
		resp.BookedServices = make(map[string]string, len(s.Booked))
		for serviceID, appointmentID := range s.Booked {
			resp.BookedServices[serviceID.String()] = appointmentID.String()
		}
	}
	return resp
}

func fromView(v *wizard.View) *SessionResponse {
	resp := fromSession(v.Session)
	resp.Summary = v.Summary
	resp.CanAdvance = v.CanAdvance
	for _, slot := range v.Slots {
		resp.AvailableSlots = append(resp.AvailableSlots, slot.String())
	}
	return resp
}

func fromOutcomes(outcomes []wizard.Outcome) []OutcomeResponse {
	out := make([]OutcomeResponse, 0, len(outcomes))
	for _, o := range outcomes {
		item := OutcomeResponse{
			ServiceID:    o.ServiceID.String(),
			ServiceTitle: o.ServiceTitle,
			Booked:       o.Booked(),
		}
		if o.AppointmentID != uuid.Nil {
			id := o.AppointmentID.String()
			item.AppointmentID = &id
		}
		if o.Err != nil {
			item.Error = outcomeMessage(o.Err)
		}
		out = append(out, item)
	}
	return out
}

func outcomeMessage(err error) string {
	switch {
	case errors.Is(err, createBooking.ErrSlotNotAvailable):
		return msgSlotTaken
	case errors.Is(err, createBooking.ErrServiceNotFound):
		return msgServiceNotFound
	case errors.Is(err, createBooking.ErrInvalidInput):
		return msgInvalidInput
	case errors.Is(err, createBooking.ErrStylistUnavailable),
		errors.Is(err, createBooking.ErrStylistOff),
		errors.Is(err, createBooking.ErrTooLateToBook):
		return msgTimeUnavailable
	default:
		return msgBookingFailed
	}
}
