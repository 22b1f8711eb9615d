package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

// StylistGetter интерфейс каталога мастеров
type StylistGetter interface {
	GetStylistByID(ctx context.Context, id uuid.UUID) (*domain.Stylist, error)
}

// ShiftRepository интерфейс репозитория графиков
type ShiftRepository interface {
	ListByStylist(ctx context.Context, stylistID uuid.UUID) ([]*domain.Shift, error)
}

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	GetBookedSlots(ctx context.Context, stylistID uuid.UUID, date time.Time) ([]domain.BookedSlot, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
