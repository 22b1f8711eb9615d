package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType tags a staff-facing notification
type NotificationType string

const (
	NotificationAppointment NotificationType = "appointment"
	NotificationConfirmed   NotificationType = "confirmed"
	NotificationReminder    NotificationType = "reminder"
	NotificationCancelled   NotificationType = "cancelled"
	NotificationWarning     NotificationType = "warning"
)

// Notification is an entry in the staff notification feed
type Notification struct {
	ID            uuid.UUID
	Title         string
	Content       string
	Type          NotificationType
	AppointmentID *uuid.UUID
	Read          bool
	CreatedAt     time.Time
}

// DeliveryMethod is the channel a client message goes through
type DeliveryMethod string

const (
	DeliveryWhatsApp DeliveryMethod = "whatsapp"
	DeliveryEmail    DeliveryMethod = "email"
)

func (m DeliveryMethod) IsValid() bool {
	return m == DeliveryWhatsApp || m == DeliveryEmail
}

// MessageLogStatus is the outcome of a client message
type MessageLogStatus string

const (
	MessageSent      MessageLogStatus = "sent"
	MessageSimulated MessageLogStatus = "simulated"
	MessageFailed    MessageLogStatus = "failed"
)

// MessageLog records every message sent (or attempted) to a client
type MessageLog struct {
	ID             uuid.UUID
	AppointmentID  uuid.UUID
	Channel        DeliveryMethod
	Recipient      string
	TemplateName   string
	MessagePreview string
	Status         MessageLogStatus
	ProviderID     *string
	CreatedAt      time.Time
}

// MessageType selects the template of an outbound client message
type MessageType string

const (
	MessageConfirmation MessageType = "confirmation"
	MessageReschedule   MessageType = "reschedule"
	MessageReminder     MessageType = "reminder"
)

func (t MessageType) IsValid() bool {
	switch t {
	case MessageConfirmation, MessageReschedule, MessageReminder:
		return true
	default:
		return false
	}
}

// TemplateName is the identifier the messaging gateway knows the template by
func (t MessageType) TemplateName() string {
	return "appointment_" + string(t)
}

// NotificationType is the feed entry emitted after the message is sent
func (t MessageType) NotificationType() NotificationType {
	switch t {
	case MessageConfirmation:
		return NotificationConfirmed
	case MessageReminder:
		return NotificationReminder
	default:
		return NotificationWarning
	}
}
