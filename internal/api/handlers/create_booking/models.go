package create_booking

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/domain"
	createBooking "github.com/m04kA/BarberBookingService/internal/usecase/create_booking"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

var (
	errInvalidServiceID = errors.New("invalid service id")
	errInvalidStylistID = errors.New("invalid stylist id")
	errInvalidDate      = errors.New("invalid booking date")
	errInvalidTime      = errors.New("invalid booking time")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID             string  `json:"serviceId"`
	StylistID             string  `json:"stylistId"`
	ClientName            string  `json:"clientName"`
	ClientEmail           string  `json:"clientEmail"`
	ClientPhone           string  `json:"clientPhone"`
	BookingDate           string  `json:"bookingDate"` // "2025-03-10"
	BookingTime           string  `json:"bookingTime"` // "14:00"
	Notes                 *string `json:"notes,omitempty"`
	WhatsAppNotifications *bool   `json:"whatsappNotifications,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                    string  `json:"id"`
	GroupID               string  `json:"groupId"`
	ServiceID             string  `json:"serviceId"`
	StylistID             string  `json:"stylistId"`
	ClientName            string  `json:"clientName"`
	ClientEmail           string  `json:"clientEmail"`
	ClientPhone           string  `json:"clientPhone"`
	BookingDate           string  `json:"bookingDate"`
	BookingTime           string  `json:"bookingTime"`
	Notes                 *string `json:"notes,omitempty"`
	Status                string  `json:"status"`
	Confirmed             bool    `json:"confirmed"`
	WhatsAppNotifications bool    `json:"whatsappNotifications"`
	CreatedAt             string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты и времени)
func (r *CreateBookingRequest) ToUseCaseRequest(loc *time.Location) (*createBooking.Request, error) {
	serviceID, err := uuid.Parse(r.ServiceID)
	if err != nil {
		return nil, errInvalidServiceID
	}
	stylistID, err := uuid.Parse(r.StylistID)
	if err != nil {
		return nil, errInvalidStylistID
	}

	date, err := handlers.ParseDate(r.BookingDate, loc)
	if err != nil {
		return nil, errInvalidDate
	}

	slot, err := types.NewTimeStringFromString(r.BookingTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &createBooking.Request{
		ServiceID:             serviceID,
		StylistID:             stylistID,
		ClientName:            r.ClientName,
		ClientEmail:           r.ClientEmail,
		ClientPhone:           r.ClientPhone,
		Date:                  date,
		Time:                  slot,
		Notes:                 r.Notes,
		WhatsAppNotifications: r.WhatsAppNotifications,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                    resp.ID.String(),
		GroupID:               resp.GroupID.String(),
		ServiceID:             resp.ServiceID.String(),
		StylistID:             resp.StylistID.String(),
		ClientName:            resp.ClientName,
		ClientEmail:           resp.ClientEmail,
		ClientPhone:           resp.ClientPhone,
		BookingDate:           resp.BookingDate.Format(domain.DateFormat),
		BookingTime:           resp.BookingTime.String(),
		Notes:                 resp.Notes,
		Status:                string(resp.Status),
		Confirmed:             resp.Confirmed,
		WhatsAppNotifications: resp.WhatsAppNotifications,
		CreatedAt:             resp.CreatedAt.Format(time.RFC3339),
	}
}
