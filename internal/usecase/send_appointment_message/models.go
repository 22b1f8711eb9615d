package send_appointment_message

import (
	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

// Options код страны для номеров без международного префикса
type Options struct {
	CountryCode string
}

// Request модель запроса на отправку сообщения клиенту
type Request struct {
	AppointmentID  uuid.UUID
	MessageType    domain.MessageType
	DeliveryMethod domain.DeliveryMethod
}

// Response модель ответа
type Response struct {
	AppointmentID  uuid.UUID
	MessageType    domain.MessageType
	DeliveryMethod domain.DeliveryMethod
	Recipient      string
	Text           string
	Simulated      bool
	Status         domain.AppointmentStatus
	Confirmed      bool
}

// PreviewRequest текст сообщения без отправки
type PreviewRequest struct {
	AppointmentID uuid.UUID
	MessageType   domain.MessageType
}

// PreviewResponse модель ответа превью
type PreviewResponse struct {
	AppointmentID uuid.UUID
	MessageType   domain.MessageType
	Subject       string
	Text          string
	CanWhatsApp   bool
	CanEmail      bool
}
