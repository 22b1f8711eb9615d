package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// Options сетка салона, режим графиков, часовой пояс
type Options struct {
	Grid         domain.SlotGrid
	IgnoreShifts bool
	Location     *time.Location
}

// Request модель запроса на создание записи
type Request struct {
	ServiceID   uuid.UUID
	StylistID   uuid.UUID
	ClientName  string
	ClientEmail string
	ClientPhone string
	Date        time.Time        // дата без времени
	Time        types.TimeString // "14:00"
	Notes       *string

	// GroupID связывает записи одной отправки мастера записи.
	// Пустой = отдельная запись, группа совпадает с ее ID
	GroupID uuid.UUID

	// WhatsAppNotifications по умолчанию true
	WhatsAppNotifications *bool
}

// Response модель ответа с созданной записью
type Response struct {
	ID          uuid.UUID
	GroupID     uuid.UUID
	ServiceID   uuid.UUID
	StylistID   uuid.UUID
	ClientName  string
	ClientEmail string
	ClientPhone string
	BookingDate time.Time
	BookingTime types.TimeString
	Notes       *string
	Status      domain.AppointmentStatus
	Confirmed   bool

	WhatsAppNotifications bool
	CreatedAt             time.Time

	// AlreadyBooked запись этой группы на эту услугу уже существовала, новая не создавалась
	AlreadyBooked bool
}
