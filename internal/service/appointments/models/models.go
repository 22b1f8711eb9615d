package models

import (
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

// Request модели

// UpdateStatusRequest запрос на смену статуса.
// Confirmed необязателен; если передан, должен совпадать со статусом
type UpdateStatusRequest struct {
	Status    string `json:"status"`
	Confirmed *bool  `json:"confirmed,omitempty"`
}

// Response модели

// AppointmentResponse запись с данными услуги и мастера
type AppointmentResponse struct {
	ID                    string    `json:"id"`
	GroupID               string    `json:"groupId"`
	ServiceID             string    `json:"serviceId"`
	StylistID             string    `json:"stylistId"`
	ClientName            string    `json:"clientName"`
	ClientEmail           string    `json:"clientEmail"`
	ClientPhone           string    `json:"clientPhone"`
	BookingDate           string    `json:"bookingDate"` // "2025-03-10"
	BookingTime           string    `json:"bookingTime"` // "14:00"
	Notes                 *string   `json:"notes,omitempty"`
	Status                string    `json:"status"`
	Confirmed             bool      `json:"confirmed"`
	WhatsAppNotifications bool      `json:"whatsappNotifications"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`

	ServiceTitle    string  `json:"serviceTitle,omitempty"`
	ServicePrice    float64 `json:"servicePrice,omitempty"`
	ServiceDuration int     `json:"serviceDuration,omitempty"`
	StylistName     string  `json:"stylistName,omitempty"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// StatsResponse счетчики дашборда
type StatsResponse struct {
	BookingsToday int `json:"bookingsToday"`
	BookingsWeek  int `json:"bookingsWeek"`
	TotalClients  int `json:"totalClients"`
	TotalStylists int `json:"totalStylists"`
}

// Конвертеры

// FromDomainAppointment конвертирует domain.Appointment в AppointmentResponse
func FromDomainAppointment(a *domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:                    a.ID.String(),
		GroupID:               a.GroupID.String(),
		ServiceID:             a.ServiceID.String(),
		StylistID:             a.StylistID.String(),
		ClientName:            a.ClientName,
		ClientEmail:           a.ClientEmail,
		ClientPhone:           a.ClientPhone,
		BookingDate:           a.BookingDate.Format(domain.DateFormat),
		BookingTime:           a.BookingTime.String(),
		Notes:                 a.Notes,
		Status:                string(a.Status),
		Confirmed:             a.Confirmed(),
		WhatsAppNotifications: a.WhatsAppNotifications,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
}

// FromDomainDetails конвертирует domain.AppointmentDetails в AppointmentResponse
func FromDomainDetails(d *domain.AppointmentDetails) AppointmentResponse {
	resp := FromDomainAppointment(&d.Appointment)
	resp.ServiceTitle = d.ServiceTitle
	resp.ServicePrice = d.ServicePrice
	resp.ServiceDuration = d.ServiceDuration
	resp.StylistName = d.StylistName
	return resp
}

// FromDomainDetailsList конвертирует список
func FromDomainDetailsList(list []*domain.AppointmentDetails) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}
	for _, d := range list {
		resp.Appointments = append(resp.Appointments, FromDomainDetails(d))
	}
	resp.Total = len(resp.Appointments)
	return resp
}

// FromDomainStats конвертирует domain.DashboardStats
func FromDomainStats(s domain.DashboardStats) *StatsResponse {
	return &StatsResponse{
		BookingsToday: s.BookingsToday,
		BookingsWeek:  s.BookingsWeek,
		TotalClients:  s.TotalClients,
		TotalStylists: s.TotalStylists,
	}
}
