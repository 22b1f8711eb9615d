package models

import (
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

// NotificationResponse элемент ленты уведомлений
type NotificationResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Type          string    `json:"type"`
	AppointmentID *string   `json:"appointmentId,omitempty"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NotificationListResponse лента уведомлений
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
}

// FromDomainNotification конвертирует domain.Notification в NotificationResponse
func FromDomainNotification(n *domain.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Content:   n.Content,
		Type:      string(n.Type),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.AppointmentID != nil {
		id := n.AppointmentID.String()
		resp.AppointmentID = &id
	}
	return resp
}

// FromDomainNotificationList конвертирует список и считает непрочитанные
func FromDomainNotificationList(list []*domain.Notification) *NotificationListResponse {
	resp := &NotificationListResponse{
		Notifications: make([]NotificationResponse, 0, len(list)),
	}
	for _, n := range list {
		resp.Notifications = append(resp.Notifications, FromDomainNotification(n))
		if !n.Read {
			resp.Unread++
		}
	}
	return resp
}
