package send_appointment_message

import (
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	sendMessage "github.com/m04kA/BarberBookingService/internal/usecase/send_appointment_message"
)

// SendMessageRequest HTTP request model
type SendMessageRequest struct {
	MessageType    string `json:"messageType"`    // confirmation | reschedule | reminder
	DeliveryMethod string `json:"deliveryMethod"` // whatsapp | email
}

// SendMessageResponse HTTP response model
type SendMessageResponse struct {
	AppointmentID  string `json:"appointmentId"`
	MessageType    string `json:"messageType"`
	DeliveryMethod string `json:"deliveryMethod"`
	Recipient      string `json:"recipient"`
	Text           string `json:"text"`
	Simulated      bool   `json:"simulated"`
	Status         string `json:"status"`
	Confirmed      bool   `json:"confirmed"`
}

func (r *SendMessageRequest) ToUseCaseRequest(id uuid.UUID) *sendMessage.Request {
	return &sendMessage.Request{
		AppointmentID:  id,
		MessageType:    domain.MessageType(strings.ToLower(strings.TrimSpace(r.MessageType))),
		DeliveryMethod: domain.DeliveryMethod(strings.ToLower(strings.TrimSpace(r.DeliveryMethod))),
	}
}

func FromUseCaseResponse(resp *sendMessage.Response) *SendMessageResponse {
	return &SendMessageResponse{
		AppointmentID:  resp.AppointmentID.String(),
		MessageType:    string(resp.MessageType),
		DeliveryMethod: string(resp.DeliveryMethod),
		Recipient:      resp.Recipient,
		Text:           resp.Text,
		Simulated:      resp.Simulated,
		Status:         string(resp.Status),
		Confirmed:      resp.Confirmed,
	}
}
